package hub

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/roomboard/roomboard/internal/model"
	"github.com/roomboard/roomboard/pkg/messaging"
	"github.com/roomboard/roomboard/pkg/metrics"
)

var dropMetricsOnce sync.Once
var dropMetrics *metrics.Metrics

// Registered under its own namespace so it cannot collide with the
// collectors the httptest suite registers.
func dropTestMetrics() *metrics.Metrics {
	dropMetricsOnce.Do(func() {
		dropMetrics = metrics.New("roomboard_droptest", "hub")
	})
	return dropMetrics
}

func TestBroadcastCountsDroppedFrames(t *testing.T) {
	m := dropTestMetrics()
	h := New(messaging.NopBroker{}, "bookings", m, zerolog.Nop())

	// A connection with no capacity and no write pump can never accept
	// the frame.
	stuck := &conn{send: make(chan []byte)}
	h.conns[stuck] = struct{}{}

	before := testutil.ToFloat64(m.DroppedFrames)
	h.broadcast(nil, []byte(`{"type":"booking_created","data":{},"timestamp":1}`), model.MessageBookingCreated)

	assert.Equal(t, before+1, testutil.ToFloat64(m.DroppedFrames))
	assert.Empty(t, stuck.send)
}
