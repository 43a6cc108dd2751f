package storage

import (
	"testing"
)

func TestBroadcastQueue_FIFOAndSnapshot(t *testing.T) {
	q := NewBroadcastQueue()

	q.Enqueue([]byte("p1"))
	q.Enqueue([]byte("p2"))
	if q.Len() != 2 {
		t.Fatalf("expected len 2, got %d", q.Len())
	}

	drained := q.Drain()
	if len(drained) != 2 || string(drained[0]) != "p1" || string(drained[1]) != "p2" {
		t.Fatalf("unexpected drain: %q", drained)
	}
	if q.Len() != 0 {
		t.Fatalf("expected empty queue after drain, got %d", q.Len())
	}

	// Items enqueued after a drain belong to the next one.
	q.Enqueue([]byte("p3"))
	drained = q.Drain()
	if len(drained) != 1 || string(drained[0]) != "p3" {
		t.Fatalf("unexpected second drain: %q", drained)
	}

	if got := q.Drain(); len(got) != 0 {
		t.Fatalf("expected nothing on empty drain, got %q", got)
	}
}
