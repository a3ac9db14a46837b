package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomboard/roomboard/internal/model"
)

func TestBookingCreatedRoundTrip(t *testing.T) {
	booking := model.Booking{
		ID:          "b-1",
		RoomID:      "1",
		DoctorID:    "2",
		StartTime:   time.Date(2025, time.June, 27, 9, 0, 0, 0, time.UTC),
		EndTime:     time.Date(2025, time.June, 27, 10, 0, 0, 0, time.UTC),
		PatientName: "Ivanov",
		Status:      model.BookingStatusConfirmed,
		Notes:       "first visit",
	}

	msg, err := model.NewMessage(model.MessageBookingCreated, booking)
	require.NoError(t, err)
	assert.Equal(t, model.MessageBookingCreated, msg.Type)
	assert.NotZero(t, msg.Timestamp)

	frame, err := msg.Encode()
	require.NoError(t, err)

	decoded, err := model.DecodeMessage(frame)
	require.NoError(t, err)
	assert.Equal(t, msg.Type, decoded.Type)
	assert.Equal(t, msg.Timestamp, decoded.Timestamp)

	var got model.Booking
	require.NoError(t, decoded.Decode(&got))
	assert.Equal(t, booking, got)
}

func TestDecodeMessageRejectsMalformedFrames(t *testing.T) {
	_, err := model.DecodeMessage([]byte("not json"))
	assert.Error(t, err)

	// Well-formed JSON without a type is still not a message.
	_, err = model.DecodeMessage([]byte(`{"data":{},"timestamp":1}`))
	assert.Error(t, err)
}

func TestBookingUpdateAppliesOnlySetFields(t *testing.T) {
	booking := model.Booking{
		ID:          "b-1",
		RoomID:      "1",
		DoctorID:    "2",
		PatientName: "Ivanov",
		Status:      model.BookingStatusConfirmed,
	}

	name := "Petrov"
	status := model.BookingStatusPending
	update := model.BookingUpdate{PatientName: &name, Status: &status}
	update.Apply(&booking)

	assert.Equal(t, "Petrov", booking.PatientName)
	assert.Equal(t, model.BookingStatusPending, booking.Status)
	assert.Equal(t, "1", booking.RoomID)
	assert.Equal(t, "2", booking.DoctorID)
}
