// Package hub is the server end of the push channel. Every frame
// accepted from one connection is fanned out to every other local
// connection and published to the broker so peer nodes can do the
// same for theirs.
package hub

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/roomboard/roomboard/internal/model"
	"github.com/roomboard/roomboard/pkg/messaging"
	"github.com/roomboard/roomboard/pkg/metrics"
)

const (
	writeWait      = 10 * time.Second
	sendBufferSize = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard is served from arbitrary origins in dev setups.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type conn struct {
	ws   *websocket.Conn
	send chan []byte
}

// brokerEnvelope tags a frame with the node that published it, so a
// node can skip its own frames when they come back from the broker.
type brokerEnvelope struct {
	Node  string          `json:"node"`
	Frame json.RawMessage `json:"frame"`
}

type Hub struct {
	broker      messaging.Broker
	channelName string
	nodeID      string
	logger      zerolog.Logger
	metrics     *metrics.Metrics

	mu    sync.Mutex
	conns map[*conn]struct{}
}

func New(broker messaging.Broker, channelName string, m *metrics.Metrics, logger zerolog.Logger) *Hub {
	return &Hub{
		broker:      broker,
		channelName: channelName,
		nodeID:      uuid.New().String(),
		logger:      logger,
		metrics:     m,
		conns:       make(map[*conn]struct{}),
	}
}

// Run replays frames published by peer nodes to the local connections.
// It blocks until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) error {
	payloads, err := h.broker.Subscribe(ctx, h.channelName)
	if err != nil {
		return err
	}
	for payload := range payloads {
		var env brokerEnvelope
		if err := json.Unmarshal(payload, &env); err != nil {
			h.metrics.DroppedFrames.Inc()
			h.logger.Warn().Err(err).Msg("dropping malformed broker payload")
			continue
		}
		if env.Node == h.nodeID {
			continue
		}
		h.metrics.BrokerReceived.Inc()
		msg, err := model.DecodeMessage(env.Frame)
		if err != nil {
			h.metrics.DroppedFrames.Inc()
			h.logger.Warn().Err(err).Msg("dropping malformed broker frame")
			continue
		}
		h.broadcast(nil, env.Frame, msg.Type)
	}
	return nil
}

// HandleWS upgrades the request and serves the connection until it
// closes.
func (h *Hub) HandleWS(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn().Err(err).Str("client_ip", c.ClientIP()).Msg("websocket upgrade failed")
		return
	}

	cn := &conn{ws: ws, send: make(chan []byte, sendBufferSize)}
	h.register(cn)
	h.logger.Info().Str("client_ip", c.ClientIP()).Int("clients", h.ClientCount()).Msg("push client connected")

	go cn.writePump()
	h.readLoop(cn)

	h.unregister(cn)
	h.logger.Info().Str("client_ip", c.ClientIP()).Int("clients", h.ClientCount()).Msg("push client disconnected")
}

// Send lets the server's own domain store broadcast its mutations the
// same way client-originated frames travel. Implements store.Sender.
func (h *Hub) Send(msg model.Message) {
	frame, err := msg.Encode()
	if err != nil {
		h.logger.Error().Err(err).Str("type", string(msg.Type)).Msg("failed to encode broadcast message")
		return
	}
	h.broadcast(nil, frame, msg.Type)
	h.publish(frame)
}

// ClientCount reports the number of live local connections.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func (h *Hub) register(cn *conn) {
	h.mu.Lock()
	h.conns[cn] = struct{}{}
	h.mu.Unlock()
	h.metrics.ConnectedClients.Inc()
}

func (h *Hub) unregister(cn *conn) {
	h.mu.Lock()
	if _, ok := h.conns[cn]; ok {
		delete(h.conns, cn)
		close(cn.send)
		h.metrics.ConnectedClients.Dec()
	}
	h.mu.Unlock()
	cn.ws.Close()
}

func (h *Hub) readLoop(cn *conn) {
	for {
		_, frame, err := cn.ws.ReadMessage()
		if err != nil {
			return
		}

		msg, err := model.DecodeMessage(frame)
		if err != nil {
			h.metrics.DroppedFrames.Inc()
			h.logger.Warn().Err(err).Msg("dropping malformed inbound frame")
			continue
		}

		h.metrics.MessagesIn.WithLabelValues(string(msg.Type)).Inc()
		h.broadcast(cn, frame, msg.Type)
		h.publish(frame)
	}
}

// broadcast fans a frame out to every local connection except origin.
// A connection whose send buffer is full is skipped; it is a live view
// and will re-hydrate over REST if it falls behind.
func (h *Hub) broadcast(origin *conn, frame []byte, msgType model.MessageType) {
	start := time.Now()

	h.mu.Lock()
	for cn := range h.conns {
		if cn == origin {
			continue
		}
		select {
		case cn.send <- frame:
			h.metrics.MessagesOut.WithLabelValues(string(msgType)).Inc()
		default:
			h.metrics.DroppedFrames.Inc()
			h.logger.Warn().Msg("push client send buffer full, skipping frame")
		}
	}
	h.mu.Unlock()

	h.metrics.BroadcastLatency.Observe(time.Since(start).Seconds())
}

func (h *Hub) publish(frame []byte) {
	payload, err := json.Marshal(brokerEnvelope{Node: h.nodeID, Frame: frame})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to encode broker payload")
		return
	}
	if err := h.broker.Publish(context.Background(), h.channelName, payload); err != nil {
		h.metrics.BrokerPublishErrors.Inc()
		h.logger.Warn().Err(err).Msg("failed to publish frame to broker")
		return
	}
	h.metrics.BrokerPublished.Inc()
}

func (cn *conn) writePump() {
	for frame := range cn.send {
		cn.ws.SetWriteDeadline(time.Now().Add(writeWait))
		if err := cn.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
			return
		}
	}
	cn.ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}
