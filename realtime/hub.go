package realtime

import "sync"

// Conn is the write side of one live channel connection.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Hub is the presence registry: recipient id -> active connection. It is
// owned by the channel handlers and read by the dispatcher; nothing else
// mutates it.
type Hub struct {
	mu    sync.Mutex
	conns map[string]Conn
}

func NewHub() *Hub {
	return &Hub{conns: make(map[string]Conn)}
}

// Register binds a recipient id to a connection. A later registration for the
// same id wins; the displaced connection keeps running but no longer receives
// pushes.
func (h *Hub) Register(recipientID string, conn Conn) {
	if recipientID == "" || conn == nil {
		return
	}
	h.mu.Lock()
	h.conns[recipientID] = conn
	h.mu.Unlock()
}

// Unregister removes every entry bound to the given connection. The recipient
// id is not known at disconnect time, so matching is by handle.
func (h *Hub) Unregister(conn Conn) {
	h.mu.Lock()
	for id, c := range h.conns {
		if c == conn {
			delete(h.conns, id)
		}
	}
	h.mu.Unlock()
}

// Lookup returns the connection for a recipient, if one is online.
func (h *Hub) Lookup(recipientID string) (Conn, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.conns[recipientID]
	return c, ok
}

// Online returns the number of registered recipients.
func (h *Hub) Online() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}
