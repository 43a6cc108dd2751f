package storage

import "sync"

// BroadcastQueue holds JSON-encoded notification payloads awaiting delivery
// to all live connections. Drained, not replayed: a payload is delivered to
// whoever is connected at drain time and then discarded.
type BroadcastQueue struct {
	mu    sync.Mutex
	items [][]byte
}

func NewBroadcastQueue() *BroadcastQueue {
	return &BroadcastQueue{}
}

// Enqueue appends payload at the tail.
func (q *BroadcastQueue) Enqueue(payload []byte) {
	q.mu.Lock()
	q.items = append(q.items, payload)
	q.mu.Unlock()
}

// Drain pops every currently queued payload in FIFO order. Payloads enqueued
// while the snapshot is being delivered belong to the next drain.
func (q *BroadcastQueue) Drain() [][]byte {
	q.mu.Lock()
	defer q.mu.Unlock()

	items := q.items
	q.items = nil
	return items
}

func (q *BroadcastQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
