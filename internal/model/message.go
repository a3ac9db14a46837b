package model

import (
	"encoding/json"
	"fmt"
	"time"
)

type MessageType string

const (
	MessageBookingCreated   MessageType = "booking_created"
	MessageBookingUpdated   MessageType = "booking_updated"
	MessageBookingDeleted   MessageType = "booking_deleted"
	MessageBookingCancelled MessageType = "booking_cancelled"
)

// Message is the wire envelope exchanged over the push channel.
// Timestamp is milliseconds since epoch; booking time fields inside
// Data are RFC 3339 strings.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// BookingRef is the payload of booking_deleted and booking_cancelled.
type BookingRef struct {
	BookingID string `json:"bookingId"`
}

// BookingPatch is the payload of booking_updated.
type BookingPatch struct {
	BookingID string        `json:"bookingId"`
	Updates   BookingUpdate `json:"updates"`
}

// NewMessage wraps payload in an envelope stamped with the current time.
func NewMessage(t MessageType, payload interface{}) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("failed to marshal %s payload: %w", t, err)
	}
	return Message{
		Type:      t,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

// DecodeMessage parses a wire frame into an envelope. The payload stays
// raw; use Decode once the type has been inspected.
func DecodeMessage(frame []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(frame, &msg); err != nil {
		return Message{}, fmt.Errorf("failed to decode message frame: %w", err)
	}
	if msg.Type == "" {
		return Message{}, fmt.Errorf("message frame missing type")
	}
	return msg, nil
}

// Encode serializes the envelope for the wire.
func (m Message) Encode() ([]byte, error) {
	frame, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s message: %w", m.Type, err)
	}
	return frame, nil
}

// Decode unmarshals the payload into v.
func (m Message) Decode(v interface{}) error {
	if err := json.Unmarshal(m.Data, v); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", m.Type, err)
	}
	return nil
}
