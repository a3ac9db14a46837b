package model

import (
	"time"
)

type NotificationType string

const (
	NotificationBookingCreated   NotificationType = "booking_created"
	NotificationBookingCancelled NotificationType = "booking_cancelled"
	NotificationBookingUpdated   NotificationType = "booking_updated"
	NotificationBookingDeleted   NotificationType = "booking_deleted"
)

// Notification is a human-readable record of a local mutation, shown in
// the dashboard's notification panel. BookingID is a lookup reference
// only; the notification can outlive the booking it points at.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	BookingID string           `json:"bookingId"`
}
