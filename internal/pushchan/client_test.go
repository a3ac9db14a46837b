package pushchan_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomboard/roomboard/internal/model"
	"github.com/roomboard/roomboard/internal/pushchan"
)

type fakeTransport struct {
	in     chan []byte
	closed chan struct{}

	mu      sync.Mutex
	written [][]byte
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		in:     make(chan []byte, 16),
		closed: make(chan struct{}),
	}
}

func (t *fakeTransport) ReadMessage() ([]byte, error) {
	select {
	case frame := <-t.in:
		return frame, nil
	case <-t.closed:
		return nil, errors.New("transport closed")
	}
}

func (t *fakeTransport) WriteMessage(data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.written = append(t.written, data)
	return nil
}

func (t *fakeTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	select {
	case <-t.closed:
	default:
		close(t.closed)
	}
	return nil
}

// drop simulates the server side tearing the connection down.
func (t *fakeTransport) drop() {
	t.Close()
}

func (t *fakeTransport) frames() [][]byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([][]byte(nil), t.written...)
}

type fakeDialer struct {
	mu         sync.Mutex
	transports []*fakeTransport
	// failFrom makes every dial starting at that attempt number fail;
	// zero means never fail.
	failFrom int
	calls    int
}

func (d *fakeDialer) Dial(ctx context.Context, url string) (pushchan.Transport, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	if d.failFrom > 0 && d.calls >= d.failFrom {
		return nil, errors.New("connection refused")
	}
	t := newFakeTransport()
	d.transports = append(d.transports, t)
	return t, nil
}

func (d *fakeDialer) dialCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

func (d *fakeDialer) lastTransport() *fakeTransport {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.transports) == 0 {
		return nil
	}
	return d.transports[len(d.transports)-1]
}

type statusRecorder struct {
	mu       sync.Mutex
	statuses []pushchan.Status
}

func (r *statusRecorder) record(status pushchan.Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, status)
}

func (r *statusRecorder) all() []pushchan.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]pushchan.Status(nil), r.statuses...)
}

func (r *statusRecorder) count(status pushchan.Status) int {
	n := 0
	for _, s := range r.all() {
		if s == status {
			n++
		}
	}
	return n
}

func newTestClient(dialer pushchan.Dialer, maxAttempts int) *pushchan.Client {
	return pushchan.NewClient(pushchan.Config{
		URL:                  "ws://test/ws",
		ReconnectInterval:    20 * time.Millisecond,
		MaxReconnectAttempts: maxAttempts,
	}, dialer, zerolog.Nop())
}

func TestConnectSuccessStatusSequence(t *testing.T) {
	dialer := &fakeDialer{}
	client := newTestClient(dialer, 3)
	defer client.Close()

	recorder := &statusRecorder{}
	client.SubscribeStatus(recorder.record)

	require.NoError(t, client.Connect(context.Background()))

	assert.Equal(t, []pushchan.Status{pushchan.StatusConnecting, pushchan.StatusConnected}, recorder.all())
	assert.Equal(t, pushchan.StatusConnected, client.Status())
}

func TestConnectFailureStatusSequenceAndNoRetry(t *testing.T) {
	dialer := &fakeDialer{failFrom: 1}
	client := newTestClient(dialer, 3)
	defer client.Close()

	recorder := &statusRecorder{}
	client.SubscribeStatus(recorder.record)

	err := client.Connect(context.Background())
	require.Error(t, err)

	var transportErr *pushchan.TransportError
	assert.ErrorAs(t, err, &transportErr)
	assert.Equal(t, []pushchan.Status{pushchan.StatusConnecting, pushchan.StatusError}, recorder.all())

	// A failed Connect must not arm the reconnect timer.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, dialer.dialCount())
	assert.Equal(t, []pushchan.Status{pushchan.StatusConnecting, pushchan.StatusError}, recorder.all())
}

func TestConnectWhileConnectedIsNoOp(t *testing.T) {
	dialer := &fakeDialer{}
	client := newTestClient(dialer, 3)
	defer client.Close()

	require.NoError(t, client.Connect(context.Background()))
	require.NoError(t, client.Connect(context.Background()))
	assert.Equal(t, 1, dialer.dialCount())
}

func TestReconnectAfterServerClose(t *testing.T) {
	dialer := &fakeDialer{}
	client := newTestClient(dialer, 3)
	defer client.Close()

	recorder := &statusRecorder{}
	client.SubscribeStatus(recorder.record)

	require.NoError(t, client.Connect(context.Background()))
	dialer.lastTransport().drop()

	assert.Eventually(t, func() bool {
		return client.Status() == pushchan.StatusConnected && dialer.dialCount() == 2
	}, 2*time.Second, 5*time.Millisecond)

	statuses := recorder.all()
	assert.Equal(t, []pushchan.Status{
		pushchan.StatusConnecting,
		pushchan.StatusConnected,
		pushchan.StatusDisconnected,
		pushchan.StatusConnecting,
		pushchan.StatusConnected,
	}, statuses)
}

func TestReconnectBound(t *testing.T) {
	const maxAttempts = 3

	// First dial succeeds, everything after always fails.
	dialer := &fakeDialer{failFrom: 2}
	client := newTestClient(dialer, maxAttempts)
	defer client.Close()

	recorder := &statusRecorder{}
	client.SubscribeStatus(recorder.record)

	require.NoError(t, client.Connect(context.Background()))
	dialer.lastTransport().drop()

	assert.Eventually(t, func() bool {
		return client.Status() == pushchan.StatusDisconnected &&
			dialer.dialCount() == 1+maxAttempts
	}, 2*time.Second, 5*time.Millisecond)

	// Budget spent: no further attempts, no further connecting.
	connectingBefore := recorder.count(pushchan.StatusConnecting)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1+maxAttempts, dialer.dialCount())
	assert.Equal(t, connectingBefore, recorder.count(pushchan.StatusConnecting))

	// One connecting per scheduled attempt plus the initial connect.
	assert.Equal(t, 1+maxAttempts, connectingBefore)
	assert.Equal(t, pushchan.StatusDisconnected, client.Status())
}

func TestSendDropsWhenNotConnected(t *testing.T) {
	dialer := &fakeDialer{}
	client := newTestClient(dialer, 3)
	defer client.Close()

	msg, err := model.NewMessage(model.MessageBookingDeleted, model.BookingRef{BookingID: "1"})
	require.NoError(t, err)

	// Not connected: the message is silently dropped, no dial happens.
	client.Send(msg)
	assert.Equal(t, 0, dialer.dialCount())
}

func TestSendWritesWhenConnected(t *testing.T) {
	dialer := &fakeDialer{}
	client := newTestClient(dialer, 3)
	defer client.Close()

	require.NoError(t, client.Connect(context.Background()))

	msg, err := model.NewMessage(model.MessageBookingDeleted, model.BookingRef{BookingID: "42"})
	require.NoError(t, err)
	client.Send(msg)

	frames := dialer.lastTransport().frames()
	require.Len(t, frames, 1)

	decoded, err := model.DecodeMessage(frames[0])
	require.NoError(t, err)
	assert.Equal(t, model.MessageBookingDeleted, decoded.Type)

	var ref model.BookingRef
	require.NoError(t, decoded.Decode(&ref))
	assert.Equal(t, "42", ref.BookingID)
}

func TestMalformedFramesAreDropped(t *testing.T) {
	dialer := &fakeDialer{}
	client := newTestClient(dialer, 3)
	defer client.Close()

	var (
		mu       sync.Mutex
		received []model.Message
	)
	client.SubscribeMessage(func(msg model.Message) {
		mu.Lock()
		received = append(received, msg)
		mu.Unlock()
	})

	require.NoError(t, client.Connect(context.Background()))
	transport := dialer.lastTransport()

	transport.in <- []byte("not json at all")
	transport.in <- []byte(`{"data":{}}`)

	valid, err := model.NewMessage(model.MessageBookingCancelled, model.BookingRef{BookingID: "7"})
	require.NoError(t, err)
	frame, err := valid.Encode()
	require.NoError(t, err)
	transport.in <- frame

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 1
	}, 2*time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, model.MessageBookingCancelled, received[0].Type)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	dialer := &fakeDialer{}
	client := newTestClient(dialer, 3)
	defer client.Close()

	recorder := &statusRecorder{}
	cancel := client.SubscribeStatus(recorder.record)
	cancel()

	require.NoError(t, client.Connect(context.Background()))
	assert.Empty(t, recorder.all())
}

func TestCloseCancelsReconnect(t *testing.T) {
	dialer := &fakeDialer{failFrom: 2}
	client := newTestClient(dialer, 5)

	require.NoError(t, client.Connect(context.Background()))
	dialer.lastTransport().drop()

	// Close while a reconnect is pending; the timer must not fire.
	client.Close()
	calls := dialer.dialCount()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, calls, dialer.dialCount())
}
