package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// event is a message pushed to every connected dashboard.
type event struct {
	Type      string            `json:"type"`
	Portfolio *portfolioPayload `json:"portfolio,omitempty"`
}

// wsRequest is a message received from a dashboard. Only weight updates come
// in over the socket; everything else goes through the REST API.
type wsRequest struct {
	Type    string             `json:"type"`
	Weights map[string]float64 `json:"weights,omitempty"`
}

// The websocket connection allows a single concurrent writer, so every
// outgoing message goes through the client's send channel and its one writer
// goroutine.
const (
	sendBuffer = 16
	writeWait  = 10 * time.Second
)

// client is one connected dashboard.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// hub tracks the connected websocket clients and fans events out to them.
// The mutex guards the clients map and the send channels: a channel is only
// written to or closed while it is held, so enqueue and close cannot race.
type hub struct {
	logger   *slog.Logger
	metrics  *metrics
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

func newHub(logger *slog.Logger, m *metrics) *hub {
	return &hub{
		logger:  logger,
		metrics: m,
		// The dashboard is served from the same origin.
		upgrader: websocket.Upgrader{},
		clients:  make(map[*client]struct{}),
	}
}

// add registers the connection and starts its writer goroutine.
func (h *hub) add(conn *websocket.Conn) *client {
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.metrics.wsClients.Inc()
	go h.write(c)
	return c
}

// write drains the client's send channel. Closing the channel, or a failed
// write, ends the goroutine and closes the connection, which in turn unblocks
// the connection's reader.
func (h *hub) write(c *client) {
	defer c.conn.Close()
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Info("websocket write failed", "err", err)
			return
		}
	}
}

// dropLocked unregisters the client and closes its send channel. Callers
// must hold the mutex; dropping an already-dropped client is a no-op.
func (h *hub) dropLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	h.metrics.wsClients.Dec()
}

func (h *hub) remove(c *client) {
	h.mu.Lock()
	h.dropLocked(c)
	h.mu.Unlock()
}

// enqueueLocked hands the message to the client's writer. A client too slow
// to drain its buffer is dropped rather than allowed to stall the server.
func (h *hub) enqueueLocked(c *client, data []byte) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
		h.logger.Info("dropping slow websocket client")
		h.dropLocked(c)
	}
}

// send queues a message for a single client.
func (h *hub) send(c *client, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("cannot marshal message", "err", err)
		return
	}
	h.mu.Lock()
	h.enqueueLocked(c, data)
	h.mu.Unlock()
}

// broadcast queues the event for every client. Enqueueing never blocks, so
// callers may hold unrelated locks.
func (h *hub) broadcast(e event) {
	data, err := json.Marshal(e)
	if err != nil {
		h.logger.Error("cannot marshal event", "err", err)
		return
	}
	h.mu.Lock()
	for c := range h.clients {
		h.enqueueLocked(c, data)
	}
	h.mu.Unlock()
}

func (h *hub) closeAll() {
	h.mu.Lock()
	for c := range h.clients {
		h.dropLocked(c)
	}
	h.mu.Unlock()
}

// handleWS upgrades the connection and reads weight updates until the client
// disconnects.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.hub.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Info("websocket upgrade failed", "err", err)
		return
	}
	c := s.hub.add(conn)
	defer s.hub.remove(c)

	for {
		var req wsRequest
		if err := conn.ReadJSON(&req); err != nil {
			return
		}
		if req.Type != "weights" {
			s.logger.Info("ignoring websocket message", "type", req.Type)
			continue
		}

		s.mu.Lock()
		err := s.applyWeights(req.Weights)
		var view portfolioPayload
		if err == nil {
			view = s.portfolioView()
		}
		s.mu.Unlock()

		if err != nil {
			s.hub.send(c, map[string]string{"error": err.Error()})
			continue
		}
		s.metrics.wsUpdates.Inc()
		s.hub.broadcast(event{Type: "portfolio", Portfolio: &view})
	}
}
