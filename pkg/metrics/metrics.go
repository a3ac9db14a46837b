package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Push channel metrics
	ConnectedClients prometheus.Gauge
	MessagesIn       *prometheus.CounterVec
	MessagesOut      *prometheus.CounterVec
	DroppedFrames    prometheus.Counter
	BroadcastLatency prometheus.Histogram

	// Broker metrics
	BrokerPublished     prometheus.Counter
	BrokerPublishErrors prometheus.Counter
	BrokerReceived      prometheus.Counter
}

// New creates and registers all application metrics
func New(namespace, subsystem string) *Metrics {
	return &Metrics{
		ConnectedClients: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "connected_clients",
			Help:      "Current number of connected push-channel clients",
		}),
		MessagesIn: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "messages_in_total",
			Help:      "Total number of inbound frames accepted, by message type",
		}, []string{"type"}),
		MessagesOut: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "messages_out_total",
			Help:      "Total number of frames broadcast to clients, by message type",
		}, []string{"type"}),
		DroppedFrames: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "dropped_frames_total",
			Help:      "Total number of inbound frames dropped as malformed",
		}),
		BroadcastLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "broadcast_duration_seconds",
			Help:      "Time spent fanning a frame out to local connections",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		BrokerPublished: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "broker_published_total",
			Help:      "Total number of frames published to the broker",
		}),
		BrokerPublishErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "broker_publish_errors_total",
			Help:      "Total number of broker publish failures",
		}),
		BrokerReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "broker_received_total",
			Help:      "Total number of frames received from the broker",
		}),
	}
}
