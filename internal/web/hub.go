package web

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

// client is one connected dashboard page. gorilla/websocket allows a single
// concurrent writer per connection, and snapshots arrive from the sensor
// tick, the clock tick and gin handlers at once, so every write goes
// through the client's own lock.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(snap Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(snap)
}

// hub tracks the connected dashboard pages and fans snapshots out to them.
// Write errors evict the client; the page reconnects on its own.
type hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]*client
	logger  *slog.Logger
}

func newHub(logger *slog.Logger) *hub {
	return &hub{clients: make(map[*websocket.Conn]*client), logger: logger}
}

// add registers a connection and sends it the current snapshot so the page
// renders before the first tick arrives.
func (h *hub) add(conn *websocket.Conn, snap Snapshot) {
	c := &client{conn: conn}

	h.mu.Lock()
	h.clients[conn] = c
	n := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug("client connected", slog.Int("clients", n))
	if err := c.send(snap); err != nil {
		h.remove(conn)
	}
}

func (h *hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.clients[conn]
	delete(h.clients, conn)
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		conn.Close()
		h.logger.Debug("client disconnected", slog.Int("clients", n))
	}
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// broadcast sends one snapshot to every connected page.
func (h *hub) broadcast(snap Snapshot) {
	h.mu.Lock()
	conns := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		if err := c.send(snap); err != nil {
			h.logger.Debug("websocket write failed", slog.String("error", err.Error()))
			h.remove(c.conn)
		}
	}
}
