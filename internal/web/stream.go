package web

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/varun2123/client-wealth-insight/internal/domain"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// streamHub fans portfolio summary updates out to connected WebSocket
// clients. Each client gets a buffered send channel; a client that cannot
// keep up is dropped rather than blocking the broadcast.
type streamHub struct {
	logger  *zap.Logger
	metrics *Metrics

	mu      sync.Mutex
	clients map[*websocket.Conn]chan []byte
}

func newStreamHub(logger *zap.Logger, metrics *Metrics) *streamHub {
	return &streamHub{
		logger:  logger,
		metrics: metrics,
		clients: make(map[*websocket.Conn]chan []byte),
	}
}

// Broadcast serializes the summary once and queues it to every client.
func (h *streamHub) Broadcast(summary domain.PortfolioSummary) {
	payload, err := json.Marshal(summary)
	if err != nil {
		h.logger.Error("Failed to encode summary for stream", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, send := range h.clients {
		select {
		case send <- payload:
		default:
			h.logger.Warn("Dropping slow stream client", zap.String("remote", conn.RemoteAddr().String()))
			h.removeLocked(conn)
		}
	}
}

func (h *streamHub) handleWS(w http.ResponseWriter, r *http.Request, initial domain.PortfolioSummary) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", zap.Error(err))
		return
	}

	// Queue the initial snapshot before the client is visible to Broadcast,
	// so nothing can close the channel between the two steps.
	send := make(chan []byte, 8)
	if payload, err := json.Marshal(initial); err == nil {
		send <- payload
	}

	h.mu.Lock()
	h.clients[conn] = send
	h.mu.Unlock()
	h.metrics.StreamClients.Inc()

	go h.writePump(conn, send)
	h.readPump(conn)
}

// writePump drains the send channel until it is closed by removeLocked.
func (h *streamHub) writePump(conn *websocket.Conn, send chan []byte) {
	for payload := range send {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.mu.Lock()
			h.removeLocked(conn)
			h.mu.Unlock()
			return
		}
	}
}

// readPump discards inbound frames and detects disconnects.
func (h *streamHub) readPump(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.mu.Lock()
			h.removeLocked(conn)
			h.mu.Unlock()
			return
		}
	}
}

func (h *streamHub) removeLocked(conn *websocket.Conn) {
	send, ok := h.clients[conn]
	if !ok {
		return
	}
	delete(h.clients, conn)
	close(send)
	conn.Close()
	h.metrics.StreamClients.Dec()
}
