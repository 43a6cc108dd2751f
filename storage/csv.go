package storage

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Persisted state is one CSV per channel (timestamp,user_id,message) plus one
// receipt CSV per channel (timestamp,user_id), both with a header row. The
// shape matches the pre-existing chat log files, so old directories replay
// cleanly.

const (
	logSuffix     = ".csv"
	receiptSuffix = ".read.csv"
)

var (
	messageHeader = []string{"timestamp", "user_id", "message"}
	receiptHeader = []string{"timestamp", "user_id"}
)

func (l *MessageLog) persistMessage(m Message) error {
	if l.dir == "" {
		return nil
	}
	path := filepath.Join(l.dir, m.ChannelID+logSuffix)
	return appendRow(path, messageHeader, []string{m.Timestamp, m.UserID, m.Text})
}

func (l *MessageLog) persistReceipt(channelID, timestamp, userID string) error {
	if l.dir == "" {
		return nil
	}
	path := filepath.Join(l.dir, channelID+receiptSuffix)
	return appendRow(path, receiptHeader, []string{timestamp, userID})
}

func appendRow(path string, header, row []string) error {
	_, statErr := os.Stat(path)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if os.IsNotExist(statErr) {
		if err := w.Write(header); err != nil {
			return err
		}
	}
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// replay loads every channel and receipt file under l.dir. Called once from
// OpenMessageLog, before the log is shared, so no locking.
func (l *MessageLog) replay() error {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("chat log dir: %w", err)
	}
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, logSuffix) {
			continue
		}
		path := filepath.Join(l.dir, name)
		rows, err := readRows(path)
		if err != nil {
			slog.Error("skipping unreadable chat log file", "path", path, "err", err)
			continue
		}
		if strings.HasSuffix(name, receiptSuffix) {
			l.replayReceipts(strings.TrimSuffix(name, receiptSuffix), rows)
		} else {
			l.replayMessages(strings.TrimSuffix(name, logSuffix), rows)
		}
	}
	return nil
}

func (l *MessageLog) replayMessages(channelID string, rows [][]string) {
	for _, row := range rows {
		if len(row) < 3 {
			continue
		}
		msg := Message{Timestamp: row[0], UserID: row[1], ChannelID: channelID, Text: row[2]}
		l.channels[channelID] = append(l.channels[channelID], msg)
		if msg.Timestamp > l.lastStamp[channelID] {
			l.lastStamp[channelID] = msg.Timestamp
		}
	}
}

func (l *MessageLog) replayReceipts(channelID string, rows [][]string) {
	byStamp, ok := l.receipts[channelID]
	if !ok {
		byStamp = map[string]map[string]struct{}{}
		l.receipts[channelID] = byStamp
	}
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		readers, ok := byStamp[row[0]]
		if !ok {
			readers = map[string]struct{}{}
			byStamp[row[0]] = readers
		}
		readers[row[1]] = struct{}{}
	}
}

// readRows returns the data rows of a CSV file, header stripped.
func readRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		rows = rows[1:]
	}
	return rows, nil
}
