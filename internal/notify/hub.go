// Package notify pushes cache-invalidation events to connected UIs over a
// websocket, so a view that went stale after someone else's mutation can
// refetch instead of polling.
package notify

import (
	"net/http"
	"sync"
	"time"

	"github.com/fes-crm/clientgate/internal/pkg/logger"
	"github.com/gorilla/websocket"
)

const writeTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browsers on other origins are fine: the feed carries cache keys only,
	// no client data.
	CheckOrigin: func(*http.Request) bool { return true },
}

type event struct {
	Type string   `json:"type"`
	Keys []string `json:"keys"`
}

// Hub fans invalidation events out to every connected subscriber. A slow
// subscriber is dropped rather than allowed to stall the rest.
type Hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]chan event
}

func NewHub() *Hub {
	return &Hub{conns: make(map[*websocket.Conn]chan event)}
}

// Invalidated implements gateway.Notifier.
func (h *Hub) Invalidated(keys []string) {
	ev := event{Type: "invalidated", Keys: keys}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, ch := range h.conns {
		select {
		case ch <- ev:
		default:
			logger.Warn("dropping slow invalidation subscriber")
			close(ch)
			delete(h.conns, conn)
			conn.Close()
		}
	}
}

// ServeWS upgrades the request and streams events until the peer goes away.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	ch := make(chan event, 32)
	h.mu.Lock()
	h.conns[conn] = ch
	h.mu.Unlock()

	go h.writeLoop(conn, ch)
	go h.readLoop(conn)
}

func (h *Hub) writeLoop(conn *websocket.Conn, ch chan event) {
	for ev := range ch {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(ev); err != nil {
			h.remove(conn)
			return
		}
	}
}

// readLoop discards inbound frames; its job is noticing the close.
func (h *Hub) readLoop(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.remove(conn)
			return
		}
	}
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.conns[conn]; ok {
		close(ch)
		delete(h.conns, conn)
	}
	conn.Close()
}

// Close drops every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, ch := range h.conns {
		close(ch)
		delete(h.conns, conn)
		conn.Close()
	}
}
