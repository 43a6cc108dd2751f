package server

import (
	"log/slog"
	"net"
	"sync"

	"github.com/FilipGjorgjeski/klepetalnica/protocol"
	"github.com/FilipGjorgjeski/klepetalnica/storage"
)

// Conn is one live connection. Its mutex serializes frame writes, so a
// handler writing its own response never interleaves bytes with a fan-out
// from another goroutine.
type Conn struct {
	mu  sync.Mutex
	net net.Conn
}

func (c *Conn) WriteFrame(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return protocol.WriteFrame(c.net, payload)
}

func (c *Conn) RemoteAddr() string {
	return c.net.RemoteAddr().String()
}

// Hub is the registry of live connections plus the delivery mechanism for
// queued broadcasts. Registration and fan-out use separate locks so a slow
// socket write never blocks accepting or removing connections.
type Hub struct {
	mu     sync.Mutex
	nextID int64
	conns  map[int64]*Conn

	// Serializes drain+delivery: every recipient observes payloads in
	// enqueue order, including across concurrent Flush callers.
	flushMu sync.Mutex
}

func NewHub() *Hub {
	return &Hub{conns: map[int64]*Conn{}}
}

// Add registers a connection in the live set and returns it together with
// its removal func. Remove is idempotent.
func (h *Hub) Add(nc net.Conn) (*Conn, func()) {
	c := &Conn{net: nc}

	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.conns[id] = c
	h.mu.Unlock()

	remove := func() {
		h.mu.Lock()
		delete(h.conns, id)
		h.mu.Unlock()
	}
	return c, remove
}

// Flush drains the queue and writes one frame per payload to every live
// connection, best-effort: a write failure on one connection closes it (its
// own handler loop then tears the session down) and does not abort delivery
// to the others.
func (h *Hub) Flush(q *storage.BroadcastQueue) {
	h.flushMu.Lock()
	defer h.flushMu.Unlock()

	payloads := q.Drain()
	if len(payloads) == 0 {
		return
	}

	h.mu.Lock()
	live := make([]*Conn, 0, len(h.conns))
	for _, c := range h.conns {
		live = append(live, c)
	}
	h.mu.Unlock()

	for _, payload := range payloads {
		for _, c := range live {
			if err := c.WriteFrame(payload); err != nil {
				slog.Error("broadcast write failed", "addr", c.RemoteAddr(), "err", err)
				_ = c.net.Close()
			}
		}
	}
}
