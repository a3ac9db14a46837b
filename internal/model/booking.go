package model

import (
	"time"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking reserves a room for a doctor over a time range. Referential
// integrity to Room/Doctor is not enforced: a dangling RoomID or
// DoctorID degrades to an "unknown" label at read time.
//
// Cancellation is a status change, not removal; only an explicit delete
// removes the record. There is no transition out of cancelled.
type Booking struct {
	ID          string        `json:"id"`
	RoomID      string        `json:"roomId"`
	DoctorID    string        `json:"doctorId"`
	StartTime   time.Time     `json:"startTime"`
	EndTime     time.Time     `json:"endTime"`
	PatientName string        `json:"patientName,omitempty"`
	Status      BookingStatus `json:"status"`
	Notes       string        `json:"notes,omitempty"`
}

// BookingUpdate is a partial booking: nil fields are left untouched by
// a merge. Last write wins at the field level; there is no revision
// number, so concurrent edits from two clients can lose one side's
// change.
type BookingUpdate struct {
	RoomID      *string        `json:"roomId,omitempty"`
	DoctorID    *string        `json:"doctorId,omitempty"`
	StartTime   *time.Time     `json:"startTime,omitempty"`
	EndTime     *time.Time     `json:"endTime,omitempty"`
	PatientName *string        `json:"patientName,omitempty"`
	Status      *BookingStatus `json:"status,omitempty"`
	Notes       *string        `json:"notes,omitempty"`
}

// Apply merges the non-nil fields of u into b.
func (u BookingUpdate) Apply(b *Booking) {
	if u.RoomID != nil {
		b.RoomID = *u.RoomID
	}
	if u.DoctorID != nil {
		b.DoctorID = *u.DoctorID
	}
	if u.StartTime != nil {
		b.StartTime = *u.StartTime
	}
	if u.EndTime != nil {
		b.EndTime = *u.EndTime
	}
	if u.PatientName != nil {
		b.PatientName = *u.PatientName
	}
	if u.Status != nil {
		b.Status = *u.Status
	}
	if u.Notes != nil {
		b.Notes = *u.Notes
	}
}
