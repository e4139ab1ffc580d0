// Package stream pushes timeline frames to connected map renderers over
// WebSocket. Each dashboard session has its own set of connections.
package stream

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Hub tracks renderer connections per session and broadcasts frame payloads
// to them.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[string]map[*websocket.Conn]bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[string]map[*websocket.Conn]bool),
	}
}

// Serve upgrades the request and keeps the connection registered for the
// session until the client disconnects. Blocks for the connection lifetime.
func (h *Hub) Serve(sessionID string, w http.ResponseWriter, r *http.Request) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	h.mu.Lock()
	if h.clients[sessionID] == nil {
		h.clients[sessionID] = make(map[*websocket.Conn]bool)
	}
	h.clients[sessionID][conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients[sessionID], conn)
		if len(h.clients[sessionID]) == 0 {
			delete(h.clients, sessionID)
		}
		h.mu.Unlock()
		conn.Close()
	}()

	// Drain client messages (ping/pong, close).
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket error on session %s: %v", sessionID, err)
			}
			return nil
		}
	}
}

// Broadcast sends the payload to every renderer of the session. Write
// failures drop the connection.
func (h *Hub) Broadcast(sessionID string, payload interface{}) {
	message, err := json.Marshal(payload)
	if err != nil {
		log.Printf("failed to marshal frame for session %s: %v", sessionID, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients[sessionID] {
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("websocket write error on session %s: %v", sessionID, err)
			conn.Close()
			delete(h.clients[sessionID], conn)
		}
	}
}

// CloseSession disconnects every renderer of the session.
func (h *Hub) CloseSession(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients[sessionID] {
		conn.Close()
	}
	delete(h.clients, sessionID)
}
