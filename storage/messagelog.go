package storage

import (
	"log/slog"
	"sync"
	"time"
)

// DefaultLatestLimit is used when callers pass limit <= 0.
const DefaultLatestLimit = 20

// stampLayout is a fixed-width ISO-8601 layout: equal-length strings, so
// lexicographic order matches chronological order.
const stampLayout = "2006-01-02T15:04:05.000000"

type Message struct {
	Timestamp string
	UserID    string
	ChannelID string
	Text      string
}

// MessageLog is the append-only per-channel message store with per-user read
// receipts. All state is guarded by one mutex; persistence is a best-effort
// CSV append behind the in-memory copy (see csv.go).
type MessageLog struct {
	mu sync.Mutex

	dir      string // "" disables persistence
	channels map[string][]Message
	// channel -> timestamp -> set(userID)
	receipts map[string]map[string]map[string]struct{}
	// channel -> last issued timestamp, for monotonicity
	lastStamp map[string]string
}

// NewMessageLog returns an in-memory log with no persistence. Used by tests
// and callers that do not care about restarts.
func NewMessageLog() *MessageLog {
	return &MessageLog{
		channels:  map[string][]Message{},
		receipts:  map[string]map[string]map[string]struct{}{},
		lastStamp: map[string]string{},
	}
}

// OpenMessageLog returns a log persisted under dir, replaying any CSV state
// already present. Unreadable files are logged and skipped; the log is safe
// to reconstruct by replaying from empty.
func OpenMessageLog(dir string) (*MessageLog, error) {
	l := NewMessageLog()
	l.dir = dir
	if err := l.replay(); err != nil {
		return nil, err
	}
	return l, nil
}

// Append assigns a server-side timestamp, strictly increasing per channel,
// stores the message and persists it. Callers must use the returned record
// (not any client-supplied timestamp) when building receipts or broadcasts.
func (l *MessageLog) Append(channelID, userID, text string) Message {
	l.mu.Lock()
	defer l.mu.Unlock()

	stamp := time.Now().UTC().Format(stampLayout)
	if last := l.lastStamp[channelID]; stamp <= last {
		stamp = bumpStamp(last)
	}
	l.lastStamp[channelID] = stamp

	msg := Message{Timestamp: stamp, UserID: userID, ChannelID: channelID, Text: text}
	l.channels[channelID] = append(l.channels[channelID], msg)

	if err := l.persistMessage(msg); err != nil {
		slog.Error("message log append not persisted", "channel", channelID, "err", err)
	}
	return msg
}

// Latest returns up to limit most recent messages in channel order, oldest of
// the slice first. limit <= 0 means DefaultLatestLimit. A missing channel is
// an empty result, not an error.
func (l *MessageLog) Latest(channelID string, limit int) []Message {
	l.mu.Lock()
	defer l.mu.Unlock()

	if limit <= 0 {
		limit = DefaultLatestLimit
	}
	msgs := l.channels[channelID]
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	res := make([]Message, len(msgs))
	copy(res, msgs)
	return res
}

// MarkRead idempotently records a read receipt per (timestamp, userID).
// Unknown timestamps are recorded anyway: the receipt is an opaque audit
// marker, not a foreign key.
func (l *MessageLog) MarkRead(channelID string, timestamps []string, userID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	byStamp, ok := l.receipts[channelID]
	if !ok {
		byStamp = map[string]map[string]struct{}{}
		l.receipts[channelID] = byStamp
	}
	for _, stamp := range timestamps {
		readers, ok := byStamp[stamp]
		if !ok {
			readers = map[string]struct{}{}
			byStamp[stamp] = readers
		}
		if _, already := readers[userID]; already {
			continue
		}
		readers[userID] = struct{}{}
		if err := l.persistReceipt(channelID, stamp, userID); err != nil {
			slog.Error("read receipt not persisted", "channel", channelID, "err", err)
		}
	}
}

// Unread returns all channel messages whose timestamp has no receipt for
// userID. A missing channel is logged and yields an empty result, which is
// indistinguishable from "everything read" (accepted limitation).
func (l *MessageLog) Unread(channelID, userID string) []Message {
	l.mu.Lock()
	defer l.mu.Unlock()

	msgs, ok := l.channels[channelID]
	if !ok {
		slog.Info("unread query for unknown channel", "channel", channelID)
		return nil
	}
	byStamp := l.receipts[channelID]
	res := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if _, read := byStamp[m.Timestamp][userID]; read {
			continue
		}
		res = append(res, m)
	}
	return res
}

// bumpStamp returns last advanced by one microsecond, keeping the issued
// timestamp strictly greater when the clock has not moved (or moved back).
func bumpStamp(last string) string {
	t, err := time.Parse(stampLayout, last)
	if err != nil {
		// Corrupt replayed stamp; fall back to wall clock.
		return time.Now().UTC().Format(stampLayout)
	}
	return t.Add(time.Microsecond).Format(stampLayout)
}
