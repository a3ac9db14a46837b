// Package bridge routes inbound push-channel messages into silent
// store mutations. Silent application is what breaks the echo cycle: a
// mutation that arrived from the network must never be broadcast back
// out.
package bridge

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/roomboard/roomboard/internal/model"
	"github.com/roomboard/roomboard/internal/pushchan"
)

// Channel is the push-channel surface the bridge consumes.
type Channel interface {
	Connect(ctx context.Context) error
	SubscribeStatus(fn func(pushchan.Status)) func()
	SubscribeMessage(fn func(model.Message)) func()
}

// SyncStore is the silent mutation surface of the domain store.
type SyncStore interface {
	SyncAddBooking(booking model.Booking)
	SyncUpdateBooking(id string, updates model.BookingUpdate)
	SyncDeleteBooking(id string)
	SyncCancelBooking(id string)
}

// Bridge owns no data; it relays channel events to the store and keeps
// the latest connection status for the presentation layer.
type Bridge struct {
	channel Channel
	store   SyncStore
	logger  zerolog.Logger

	mu            sync.Mutex
	status        pushchan.Status
	cancelStatus  func()
	cancelMessage func()
	started       bool
}

func New(channel Channel, store SyncStore, logger zerolog.Logger) *Bridge {
	return &Bridge{
		channel: channel,
		store:   store,
		logger:  logger,
		status:  pushchan.StatusDisconnected,
	}
}

// Start subscribes to the channel for the bridge's lifetime and
// requests a connection. A connection failure leaves the bridge in
// StatusError; the error is returned so the caller can decide on a
// manual retry.
func (b *Bridge) Start(ctx context.Context) error {
	b.mu.Lock()
	if b.started {
		b.mu.Unlock()
		return nil
	}
	b.started = true
	b.status = pushchan.StatusConnecting
	b.cancelStatus = b.channel.SubscribeStatus(b.handleStatus)
	b.cancelMessage = b.channel.SubscribeMessage(b.handleMessage)
	b.mu.Unlock()

	if err := b.channel.Connect(ctx); err != nil {
		b.mu.Lock()
		b.status = pushchan.StatusError
		b.mu.Unlock()
		return err
	}
	return nil
}

// Stop cancels both subscriptions so no handler outlives the consumer.
func (b *Bridge) Stop() {
	b.mu.Lock()
	cancelStatus := b.cancelStatus
	cancelMessage := b.cancelMessage
	b.cancelStatus = nil
	b.cancelMessage = nil
	b.started = false
	b.mu.Unlock()

	if cancelStatus != nil {
		cancelStatus()
	}
	if cancelMessage != nil {
		cancelMessage()
	}
}

// Status returns the last observed connection status.
func (b *Bridge) Status() pushchan.Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status
}

func (b *Bridge) handleStatus(status pushchan.Status) {
	b.mu.Lock()
	b.status = status
	b.mu.Unlock()
}

// handleMessage maps inbound message types onto the store's silent
// mutations. Unknown types are ignored so newer servers can ship new
// message kinds without breaking old clients.
func (b *Bridge) handleMessage(msg model.Message) {
	switch msg.Type {
	case model.MessageBookingCreated:
		var booking model.Booking
		if err := msg.Decode(&booking); err != nil {
			b.logger.Warn().Err(err).Msg("dropping booking_created with bad payload")
			return
		}
		b.store.SyncAddBooking(booking)

	case model.MessageBookingUpdated:
		var patch model.BookingPatch
		if err := msg.Decode(&patch); err != nil {
			b.logger.Warn().Err(err).Msg("dropping booking_updated with bad payload")
			return
		}
		b.store.SyncUpdateBooking(patch.BookingID, patch.Updates)

	case model.MessageBookingDeleted:
		var ref model.BookingRef
		if err := msg.Decode(&ref); err != nil {
			b.logger.Warn().Err(err).Msg("dropping booking_deleted with bad payload")
			return
		}
		b.store.SyncDeleteBooking(ref.BookingID)

	case model.MessageBookingCancelled:
		var ref model.BookingRef
		if err := msg.Decode(&ref); err != nil {
			b.logger.Warn().Err(err).Msg("dropping booking_cancelled with bad payload")
			return
		}
		b.store.SyncCancelBooking(ref.BookingID)

	default:
		b.logger.Debug().Str("type", string(msg.Type)).Msg("ignoring unknown message type")
	}
}
