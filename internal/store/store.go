// Package store holds the in-process state the dashboard renders:
// rooms, doctors, bookings and the notification feed. Every mutation
// goes through the Store so readers always observe a consistent
// snapshot.
package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/roomboard/roomboard/internal/model"
)

// maxNotifications bounds the notification feed to the most recent
// entries, newest first.
const maxNotifications = 10

// Sender forwards a locally originated mutation to the push channel so
// other clients see it. A nil Sender puts the store in local-only mode.
type Sender interface {
	Send(msg model.Message)
}

type Store struct {
	mu            sync.Mutex
	rooms         []model.Room
	doctors       []model.Doctor
	bookings      []model.Booking
	notifications []model.Notification

	sender Sender
	logger zerolog.Logger
}

func New(rooms []model.Room, doctors []model.Doctor, bookings []model.Booking, sender Sender, logger zerolog.Logger) *Store {
	return &Store{
		rooms:    append([]model.Room(nil), rooms...),
		doctors:  append([]model.Doctor(nil), doctors...),
		bookings: append([]model.Booking(nil), bookings...),
		sender:   sender,
		logger:   logger,
	}
}

// AddBooking assigns a fresh id, appends the booking, records a
// notification naming the resolved room and doctor, and forwards a
// booking_created message outward. The returned booking carries the
// generated id.
func (s *Store) AddBooking(booking model.Booking) model.Booking {
	s.mu.Lock()
	booking.ID = uuid.New().String()
	if booking.Status == "" {
		booking.Status = model.BookingStatusConfirmed
	}
	s.bookings = append(s.bookings, booking)

	room := s.roomNameLocked(booking.RoomID)
	doctor := s.doctorNameLocked(booking.DoctorID)
	s.addNotificationLocked(model.Notification{
		Type:      model.NotificationBookingCreated,
		Message:   fmt.Sprintf("Room %s booked for %s", room, doctor),
		BookingID: booking.ID,
	})
	s.mu.Unlock()

	s.forward(model.MessageBookingCreated, booking)
	return booking
}

// CancelBooking marks the booking cancelled. The record stays in the
// collection; only DeleteBooking removes it. An unknown id is a no-op.
func (s *Store) CancelBooking(id string) {
	s.mu.Lock()
	booking := s.findLocked(id)
	if booking == nil {
		s.mu.Unlock()
		return
	}
	booking.Status = model.BookingStatusCancelled

	room := s.roomNameLocked(booking.RoomID)
	doctor := s.doctorNameLocked(booking.DoctorID)
	s.addNotificationLocked(model.Notification{
		Type:      model.NotificationBookingCancelled,
		Message:   fmt.Sprintf("Booking of room %s cancelled for %s", room, doctor),
		BookingID: id,
	})
	s.mu.Unlock()

	s.forward(model.MessageBookingCancelled, model.BookingRef{BookingID: id})
}

// DeleteBooking removes the record entirely. An unknown id is a no-op.
func (s *Store) DeleteBooking(id string) {
	s.mu.Lock()
	booking := s.findLocked(id)
	if booking == nil {
		s.mu.Unlock()
		return
	}
	room := s.roomNameLocked(booking.RoomID)
	s.removeLocked(id)
	s.addNotificationLocked(model.Notification{
		Type:      model.NotificationBookingDeleted,
		Message:   fmt.Sprintf("Booking of room %s removed", room),
		BookingID: id,
	})
	s.mu.Unlock()

	s.forward(model.MessageBookingDeleted, model.BookingRef{BookingID: id})
}

// UpdateBooking merges the non-nil fields of updates into the booking.
// An unknown id is a no-op.
func (s *Store) UpdateBooking(id string, updates model.BookingUpdate) {
	s.mu.Lock()
	booking := s.findLocked(id)
	if booking == nil {
		s.mu.Unlock()
		return
	}
	updates.Apply(booking)
	s.addNotificationLocked(model.Notification{
		Type:      model.NotificationBookingUpdated,
		Message:   "Booking updated",
		BookingID: id,
	})
	s.mu.Unlock()

	s.forward(model.MessageBookingUpdated, model.BookingPatch{BookingID: id, Updates: updates})
}

// AddNotification assigns an id and the current time, prepends the
// notification and drops entries beyond the feed bound.
func (s *Store) AddNotification(n model.Notification) {
	s.mu.Lock()
	s.addNotificationLocked(n)
	s.mu.Unlock()
}

func (s *Store) ClearNotifications() {
	s.mu.Lock()
	s.notifications = nil
	s.mu.Unlock()
}

// SyncAddBooking applies a remotely created booking as-is: no fresh id,
// no notification, no outward forward.
func (s *Store) SyncAddBooking(booking model.Booking) {
	s.mu.Lock()
	s.bookings = append(s.bookings, booking)
	s.mu.Unlock()
}

// SyncUpdateBooking applies a remote merge-update without forwarding.
func (s *Store) SyncUpdateBooking(id string, updates model.BookingUpdate) {
	s.mu.Lock()
	if booking := s.findLocked(id); booking != nil {
		updates.Apply(booking)
	}
	s.mu.Unlock()
}

// SyncDeleteBooking applies a remote delete without forwarding.
func (s *Store) SyncDeleteBooking(id string) {
	s.mu.Lock()
	s.removeLocked(id)
	s.mu.Unlock()
}

// SyncCancelBooking applies a remote cancellation without forwarding.
func (s *Store) SyncCancelBooking(id string) {
	s.mu.Lock()
	if booking := s.findLocked(id); booking != nil {
		booking.Status = model.BookingStatusCancelled
	}
	s.mu.Unlock()
}

// GetRoomBookings returns the non-cancelled bookings for a room, in
// insertion order.
func (s *Store) GetRoomBookings(roomID string) []model.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Booking
	for _, b := range s.bookings {
		if b.RoomID == roomID && b.Status != model.BookingStatusCancelled {
			out = append(out, b)
		}
	}
	return out
}

// GetDoctorBookings returns the non-cancelled bookings for a doctor, in
// insertion order.
func (s *Store) GetDoctorBookings(doctorID string) []model.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Booking
	for _, b := range s.bookings {
		if b.DoctorID == doctorID && b.Status != model.BookingStatusCancelled {
			out = append(out, b)
		}
	}
	return out
}

func (s *Store) Rooms() []model.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Room(nil), s.rooms...)
}

func (s *Store) Doctors() []model.Doctor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Doctor(nil), s.doctors...)
}

func (s *Store) Bookings() []model.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Booking(nil), s.bookings...)
}

// Notifications returns the feed newest first, at most maxNotifications
// entries.
func (s *Store) Notifications() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Notification(nil), s.notifications...)
}

func (s *Store) findLocked(id string) *model.Booking {
	for i := range s.bookings {
		if s.bookings[i].ID == id {
			return &s.bookings[i]
		}
	}
	return nil
}

func (s *Store) removeLocked(id string) {
	for i := range s.bookings {
		if s.bookings[i].ID == id {
			s.bookings = append(s.bookings[:i], s.bookings[i+1:]...)
			return
		}
	}
}

func (s *Store) roomNameLocked(id string) string {
	for _, r := range s.rooms {
		if r.ID == id {
			return r.Name
		}
	}
	return "unknown room"
}

func (s *Store) doctorNameLocked(id string) string {
	for _, d := range s.doctors {
		if d.ID == id {
			return d.Name
		}
	}
	return "unknown doctor"
}

func (s *Store) addNotificationLocked(n model.Notification) {
	n.ID = uuid.New().String()
	n.Timestamp = time.Now()
	s.notifications = append([]model.Notification{n}, s.notifications...)
	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[:maxNotifications]
	}
}

// forward broadcasts a locally originated mutation. Called outside the
// lock so a Sender that re-enters the store cannot deadlock.
func (s *Store) forward(t model.MessageType, payload interface{}) {
	if s.sender == nil {
		return
	}
	msg, err := model.NewMessage(t, payload)
	if err != nil {
		s.logger.Error().Err(err).Str("type", string(t)).Msg("failed to build outbound message")
		return
	}
	s.sender.Send(msg)
}
