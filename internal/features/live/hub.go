package live

import (
	"sync"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// Hub tracks connected dashboard clients and fans report events out to them.
// Writes go through a per-hub lock; a client that fails a write is dropped.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	Logger  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
		Logger:  logger,
	}
}

func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
}

// Broadcast sends a text message to every connected client
func (h *Hub) Broadcast(message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			h.Logger.Warn("dropping live client", zap.Error(err))
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// CloseAll sends a final message to every client and drops them. Used when
// the upstream subscription dies and the push channel can no longer be
// trusted.
func (h *Hub) CloseAll(message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		_ = conn.WriteMessage(websocket.TextMessage, message)
		conn.Close()
		delete(h.clients, conn)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
