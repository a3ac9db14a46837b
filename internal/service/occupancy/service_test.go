package occupancy_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomboard/roomboard/internal/model"
	"github.com/roomboard/roomboard/internal/seed"
	"github.com/roomboard/roomboard/internal/service/occupancy"
	"github.com/roomboard/roomboard/internal/store"
)

func newService(t *testing.T, ttl time.Duration) (*occupancy.Service, *store.Store) {
	t.Helper()
	st := store.New(seed.Rooms(), seed.Doctors(), nil, nil, zerolog.Nop())
	return occupancy.NewService(st, ttl), st
}

func rowFor(t *testing.T, rows []occupancy.RoomOccupancy, roomID string) occupancy.RoomOccupancy {
	t.Helper()
	for _, row := range rows {
		if row.RoomID == roomID {
			return row
		}
	}
	t.Fatalf("no occupancy row for room %s", roomID)
	return occupancy.RoomOccupancy{}
}

func TestSnapshotCoversEveryRoom(t *testing.T) {
	svc, st := newService(t, time.Minute)

	rows := svc.Snapshot(time.Now())
	require.Len(t, rows, len(st.Rooms()))
	for _, row := range rows {
		assert.False(t, row.Occupied)
		assert.Zero(t, row.Viewers)
	}
}

func TestViewerCounting(t *testing.T) {
	svc, _ := newService(t, time.Minute)

	svc.Heartbeat("1", "alice")
	svc.Heartbeat("1", "bob")
	svc.Heartbeat("2", "alice")
	// Repeated heartbeats from the same viewer do not double count.
	svc.Heartbeat("1", "alice")

	rows := svc.Snapshot(time.Now())
	assert.Equal(t, 2, rowFor(t, rows, "1").Viewers)
	assert.Equal(t, 1, rowFor(t, rows, "2").Viewers)
	assert.Equal(t, 0, rowFor(t, rows, "3").Viewers)
}

func TestPresenceExpires(t *testing.T) {
	svc, _ := newService(t, 20*time.Millisecond)

	svc.Heartbeat("1", "alice")
	require.Equal(t, 1, rowFor(t, svc.Snapshot(time.Now()), "1").Viewers)

	assert.Eventually(t, func() bool {
		return rowFor(t, svc.Snapshot(time.Now()), "1").Viewers == 0
	}, time.Second, 10*time.Millisecond)
}

func TestOccupiedByActiveBooking(t *testing.T) {
	svc, st := newService(t, time.Minute)
	now := time.Date(2025, 6, 27, 9, 30, 0, 0, time.UTC)

	booked := st.AddBooking(model.Booking{
		RoomID:    "1",
		DoctorID:  "1",
		StartTime: now.Add(-30 * time.Minute),
		EndTime:   now.Add(30 * time.Minute),
	})
	// Future booking in another room does not occupy it yet.
	st.AddBooking(model.Booking{
		RoomID:    "2",
		DoctorID:  "2",
		StartTime: now.Add(time.Hour),
		EndTime:   now.Add(2 * time.Hour),
	})
	// Past booking is over.
	st.AddBooking(model.Booking{
		RoomID:    "3",
		DoctorID:  "3",
		StartTime: now.Add(-2 * time.Hour),
		EndTime:   now.Add(-time.Hour),
	})

	rows := svc.Snapshot(now)

	occupied := rowFor(t, rows, "1")
	assert.True(t, occupied.Occupied)
	assert.Equal(t, booked.ID, occupied.BookingID)

	assert.False(t, rowFor(t, rows, "2").Occupied)
	assert.False(t, rowFor(t, rows, "3").Occupied)
}

func TestCancelledBookingDoesNotOccupy(t *testing.T) {
	svc, st := newService(t, time.Minute)
	now := time.Date(2025, 6, 27, 9, 30, 0, 0, time.UTC)

	booked := st.AddBooking(model.Booking{
		RoomID:    "1",
		DoctorID:  "1",
		StartTime: now.Add(-time.Hour),
		EndTime:   now.Add(time.Hour),
	})
	st.CancelBooking(booked.ID)

	row := rowFor(t, svc.Snapshot(now), "1")
	assert.False(t, row.Occupied)
	assert.Empty(t, row.BookingID)
}

func TestBookingStartingExactlyNowOccupies(t *testing.T) {
	svc, st := newService(t, time.Minute)
	now := time.Date(2025, 6, 27, 9, 0, 0, 0, time.UTC)

	st.AddBooking(model.Booking{
		RoomID:    "1",
		DoctorID:  "1",
		StartTime: now,
		EndTime:   now.Add(time.Hour),
	})

	assert.True(t, rowFor(t, svc.Snapshot(now), "1").Occupied)
}
