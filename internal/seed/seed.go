// Package seed holds the static reference data the dashboard starts
// from. There is no durable storage: every process boots with this set
// and diverges from it only in memory.
package seed

import (
	"time"

	"github.com/roomboard/roomboard/internal/model"
)

func Rooms() []model.Room {
	return []model.Room{
		{
			ID:        "1",
			Name:      "Small",
			Type:      model.RoomTypeExamination,
			Capacity:  2,
			Equipment: []string{"examination table", "ultrasound"},
		},
		{
			ID:        "2",
			Name:      "Large",
			Type:      model.RoomTypeSurgery,
			Capacity:  6,
			Equipment: []string{"operating table", "anesthesia machine", "monitors"},
		},
		{
			ID:        "3",
			Name:      "Orangery",
			Type:      model.RoomTypeConsultation,
			Capacity:  4,
			Equipment: []string{"desk", "whiteboard"},
		},
		{
			ID:        "4",
			Name:      "Hall",
			Type:      model.RoomTypeConsultation,
			Capacity:  12,
			Equipment: []string{"projector"},
		},
	}
}

func Doctors() []model.Doctor {
	return []model.Doctor{
		{ID: "1", Name: "Ivanov I.I.", Specialization: "Therapist"},
		{ID: "2", Name: "Petrova A.S.", Specialization: "Cardiologist"},
		{ID: "3", Name: "Sidorov P.M.", Specialization: "Surgeon"},
	}
}

func Bookings() []model.Booking {
	return []model.Booking{
		{
			ID:          "1",
			RoomID:      "1",
			DoctorID:    "1",
			StartTime:   time.Date(2025, time.June, 27, 9, 0, 0, 0, time.UTC),
			EndTime:     time.Date(2025, time.June, 27, 10, 0, 0, 0, time.UTC),
			PatientName: "Ivanov Petr",
			Status:      model.BookingStatusConfirmed,
		},
		{
			ID:          "2",
			RoomID:      "2",
			DoctorID:    "2",
			StartTime:   time.Date(2025, time.June, 27, 14, 0, 0, 0, time.UTC),
			EndTime:     time.Date(2025, time.June, 27, 15, 30, 0, 0, time.UTC),
			PatientName: "Sidorova Maria",
			Status:      model.BookingStatusConfirmed,
		},
	}
}
