package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppendAndLatest_OrderAndLimit(t *testing.T) {
	l := NewMessageLog()

	l.Append("public", "u1", "one")
	m2 := l.Append("public", "u1", "two")
	m3 := l.Append("public", "u2", "three")

	msgs := l.Latest("public", 0)
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	if msgs[0].Text != "one" || msgs[1].Text != "two" || msgs[2].Text != "three" {
		t.Fatalf("unexpected order: %+v", msgs)
	}

	msgs = l.Latest("public", 2)
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages with limit=2, got %d", len(msgs))
	}
	if msgs[0].Timestamp != m2.Timestamp || msgs[1].Timestamp != m3.Timestamp {
		t.Fatalf("expected the 2 most recent, got %+v", msgs)
	}

	if got := l.Latest("missing-channel", 5); len(got) != 0 {
		t.Fatalf("expected empty result for missing channel, got %+v", got)
	}
}

func TestAppend_TimestampsStrictlyIncreasing(t *testing.T) {
	l := NewMessageLog()

	// Rapid appends land within the same clock tick; the log must still
	// issue strictly increasing stamps.
	last := ""
	for i := 0; i < 200; i++ {
		m := l.Append("public", "u1", "x")
		if m.Timestamp <= last {
			t.Fatalf("timestamp not increasing: %q after %q", m.Timestamp, last)
		}
		last = m.Timestamp
	}
}

func TestAppend_TimestampsIndependentPerChannel(t *testing.T) {
	l := NewMessageLog()

	a := l.Append("a", "u1", "x")
	b := l.Append("b", "u1", "y")
	if a.ChannelID != "a" || b.ChannelID != "b" {
		t.Fatalf("unexpected channels: %+v %+v", a, b)
	}
	if len(l.Latest("a", 0)) != 1 || len(l.Latest("b", 0)) != 1 {
		t.Fatalf("channels must not share sequences")
	}
}

func TestMarkReadAndUnread(t *testing.T) {

	t.Run("idempotent", func(t *testing.T) {
		l := NewMessageLog()
		m := l.Append("public", "u1", "hello")

		l.MarkRead("public", []string{m.Timestamp}, "u2")
		once := l.Unread("public", "u2")

		l.MarkRead("public", []string{m.Timestamp}, "u2")
		twice := l.Unread("public", "u2")

		assert.Equal(t, once, twice)
		assert.Empty(t, twice)
	})

	t.Run("per-user-isolation", func(t *testing.T) {
		l := NewMessageLog()
		m := l.Append("public", "u1", "hello")

		l.MarkRead("public", []string{m.Timestamp}, "u2")

		assert.Empty(t, l.Unread("public", "u2"))
		other := l.Unread("public", "u3")
		assert.Len(t, other, 1)
		assert.Equal(t, "hello", other[0].Text)
	})

	t.Run("unknown-timestamp-recorded", func(t *testing.T) {
		l := NewMessageLog()
		l.Append("public", "u1", "hello")

		// No existence check: the receipt is an audit marker.
		l.MarkRead("public", []string{"2099-01-01T00:00:00.000000"}, "u2")

		assert.Len(t, l.Unread("public", "u2"), 1)
	})

	t.Run("missing-channel", func(t *testing.T) {
		l := NewMessageLog()
		assert.Empty(t, l.Unread("nope", "u1"))
	})
}

func TestOpenMessageLog_ReplaysFromDisk(t *testing.T) {
	dir := t.TempDir()

	l, err := OpenMessageLog(dir)
	if err != nil {
		t.Fatalf("OpenMessageLog: %v", err)
	}
	m1 := l.Append("public", "u1", "persisted one")
	m2 := l.Append("public", "u2", "persisted two")
	l.Append("direct-ch", "u1", "elsewhere")
	l.MarkRead("public", []string{m1.Timestamp}, "u2")

	replayed, err := OpenMessageLog(dir)
	if err != nil {
		t.Fatalf("OpenMessageLog(replay): %v", err)
	}

	msgs := replayed.Latest("public", 0)
	if len(msgs) != 2 {
		t.Fatalf("expected 2 replayed messages, got %d", len(msgs))
	}
	if msgs[0].Text != "persisted one" || msgs[1].Text != "persisted two" {
		t.Fatalf("unexpected replay: %+v", msgs)
	}

	unread := replayed.Unread("public", "u2")
	if len(unread) != 1 || unread[0].Timestamp != m2.Timestamp {
		t.Fatalf("expected receipt to survive replay, got %+v", unread)
	}

	// New appends must stay ahead of replayed stamps.
	m3 := replayed.Append("public", "u1", "after restart")
	if m3.Timestamp <= m2.Timestamp {
		t.Fatalf("timestamp regressed after replay: %q <= %q", m3.Timestamp, m2.Timestamp)
	}
}
