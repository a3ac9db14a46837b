// Package pushchan implements the client side of the push channel: a
// single logical connection that survives transient failures by
// reconnecting on a fixed interval, with a typed subscription surface
// for inbound messages and connection-status transitions.
package pushchan

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/roomboard/roomboard/internal/model"
)

// Status is the connection state visible to subscribers.
type Status string

const (
	StatusConnecting   Status = "connecting"
	StatusConnected    Status = "connected"
	StatusDisconnected Status = "disconnected"
	StatusError        Status = "error"
)

// Config is fixed at construction and not runtime-mutable.
type Config struct {
	URL                  string
	ReconnectInterval    time.Duration
	MaxReconnectAttempts int
}

// TransportError reports a transport that failed to open.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("push channel transport to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type statusSub struct {
	id int
	fn func(Status)
}

type messageSub struct {
	id int
	fn func(model.Message)
}

// Client owns the transport handle and the reconnect timer, nothing
// else. A transport that closes after it was open is redialed on a
// fixed interval up to MaxReconnectAttempts, then the client settles in
// StatusDisconnected for good. A Connect call that fails outright
// schedules nothing; the caller decides whether to try again.
type Client struct {
	cfg    Config
	dialer Dialer
	logger zerolog.Logger

	mu                sync.Mutex
	transport         Transport
	status            Status
	reconnectAttempts int
	reconnectTimer    *time.Timer
	closed            bool

	nextSubID   int
	statusSubs  []statusSub
	messageSubs []messageSub
}

func NewClient(cfg Config, dialer Dialer, logger zerolog.Logger) *Client {
	return &Client{
		cfg:    cfg,
		dialer: dialer,
		logger: logger,
		status: StatusDisconnected,
	}
}

// Status returns the current connection status.
func (c *Client) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Connect establishes the transport. It returns once the transport is
// open, or a *TransportError if it could not open. The failure path
// does not schedule a retry; automatic reconnection only follows the
// loss of a previously open transport. Connect while already connected
// is a no-op.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return fmt.Errorf("push channel client is closed")
	}
	if c.status == StatusConnected {
		c.mu.Unlock()
		return nil
	}
	subs := c.setStatusLocked(StatusConnecting)
	c.mu.Unlock()
	notify(subs, StatusConnecting)

	return c.dial(ctx)
}

// dial opens a transport and promotes the client to connected, or
// reports StatusError. Shared by Connect and the reconnect timer.
func (c *Client) dial(ctx context.Context) error {
	transport, err := c.dialer.Dial(ctx, c.cfg.URL)
	if err != nil {
		c.mu.Lock()
		subs := c.setStatusLocked(StatusError)
		c.mu.Unlock()
		notify(subs, StatusError)
		return &TransportError{URL: c.cfg.URL, Err: err}
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		transport.Close()
		return fmt.Errorf("push channel client is closed")
	}
	c.transport = transport
	c.reconnectAttempts = 0
	subs := c.setStatusLocked(StatusConnected)
	c.mu.Unlock()
	notify(subs, StatusConnected)

	go c.readLoop(transport)
	return nil
}

// Send encodes and writes the message if the transport is currently
// open, and silently drops it otherwise. Delivery is best-effort and
// at-most-once: a stale send is worthless to a live view.
func (c *Client) Send(msg model.Message) {
	c.mu.Lock()
	transport := c.transport
	open := c.status == StatusConnected && transport != nil
	c.mu.Unlock()

	if !open {
		c.logger.Debug().Str("type", string(msg.Type)).Msg("push channel not open, dropping outbound message")
		return
	}

	frame, err := msg.Encode()
	if err != nil {
		c.logger.Error().Err(err).Str("type", string(msg.Type)).Msg("failed to encode outbound message")
		return
	}
	if err := transport.WriteMessage(frame); err != nil {
		c.logger.Warn().Err(err).Str("type", string(msg.Type)).Msg("failed to write outbound message")
	}
}

// SubscribeStatus registers a handler for status transitions. Handlers
// run synchronously, in registration order, on the goroutine that
// caused the transition. The returned function cancels the
// subscription.
func (c *Client) SubscribeStatus(fn func(Status)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextSubID++
	id := c.nextSubID
	c.statusSubs = append(c.statusSubs, statusSub{id: id, fn: fn})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, sub := range c.statusSubs {
			if sub.id == id {
				c.statusSubs = append(c.statusSubs[:i], c.statusSubs[i+1:]...)
				return
			}
		}
	}
}

// SubscribeMessage registers a handler for decoded inbound messages.
// Same delivery semantics as SubscribeStatus.
func (c *Client) SubscribeMessage(fn func(model.Message)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextSubID++
	id := c.nextSubID
	c.messageSubs = append(c.messageSubs, messageSub{id: id, fn: fn})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, sub := range c.messageSubs {
			if sub.id == id {
				c.messageSubs = append(c.messageSubs[:i], c.messageSubs[i+1:]...)
				return
			}
		}
	}
}

// Close cancels any pending reconnect, closes the transport and
// releases the client. Terminal: no further status events are emitted
// and no reconnects are attempted.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.reconnectTimer != nil {
		c.reconnectTimer.Stop()
		c.reconnectTimer = nil
	}
	transport := c.transport
	c.transport = nil
	c.mu.Unlock()

	if transport != nil {
		transport.Close()
	}
}

func (c *Client) readLoop(transport Transport) {
	for {
		frame, err := transport.ReadMessage()
		if err != nil {
			c.handleClose(transport)
			return
		}

		msg, err := model.DecodeMessage(frame)
		if err != nil {
			c.logger.Warn().Err(err).Msg("dropping malformed inbound frame")
			continue
		}
		c.emitMessage(msg)
	}
}

// handleClose runs when an open transport dies for any reason,
// including a server-initiated close. It reports the loss and arms the
// reconnect timer if attempts remain.
func (c *Client) handleClose(transport Transport) {
	c.mu.Lock()
	if c.closed || c.transport != transport {
		c.mu.Unlock()
		return
	}
	c.transport = nil
	subs := c.setStatusLocked(StatusDisconnected)
	c.mu.Unlock()
	notify(subs, StatusDisconnected)

	c.scheduleReconnect()
}

// scheduleReconnect consumes one attempt and arms the timer, or leaves
// the client disconnected permanently once the budget is spent.
func (c *Client) scheduleReconnect() {
	c.mu.Lock()
	if c.closed || c.reconnectAttempts >= c.cfg.MaxReconnectAttempts {
		c.mu.Unlock()
		return
	}
	c.reconnectAttempts++
	attempt := c.reconnectAttempts
	subs := c.setStatusLocked(StatusConnecting)
	c.reconnectTimer = time.AfterFunc(c.cfg.ReconnectInterval, func() {
		c.redial(attempt)
	})
	c.mu.Unlock()
	notify(subs, StatusConnecting)
}

// redial is the timer callback. A failed attempt chains the next one;
// after the last failure the client reports disconnected and stops.
func (c *Client) redial(attempt int) {
	err := c.dial(context.Background())
	if err == nil {
		return
	}
	c.logger.Warn().Err(err).Int("attempt", attempt).Msg("reconnect attempt failed")

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	exhausted := c.reconnectAttempts >= c.cfg.MaxReconnectAttempts
	var subs []statusSub
	if exhausted {
		subs = c.setStatusLocked(StatusDisconnected)
	}
	c.mu.Unlock()

	if exhausted {
		notify(subs, StatusDisconnected)
		return
	}
	c.scheduleReconnect()
}

// setStatusLocked records the status and snapshots the subscriber list.
// Callers hold c.mu and invoke notify after unlocking, so a handler may
// subscribe, unsubscribe or Send without deadlocking.
func (c *Client) setStatusLocked(status Status) []statusSub {
	c.status = status
	return append([]statusSub(nil), c.statusSubs...)
}

func notify(subs []statusSub, status Status) {
	for _, sub := range subs {
		sub.fn(status)
	}
}

func (c *Client) emitMessage(msg model.Message) {
	c.mu.Lock()
	subs := append([]messageSub(nil), c.messageSubs...)
	c.mu.Unlock()

	for _, sub := range subs {
		sub.fn(msg)
	}
}
