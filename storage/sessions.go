package storage

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// PublicChannel is the only broadcast-enabled channel; every other channel
// identifier is really a user token (direct addressing). The conflation is
// deliberate: Authorized treats a channel as valid iff it is the public one
// or resolves to a known token.
const PublicChannel = "public"

// Sessions keeps two views consistent under one lock: addr -> token and
// token -> connected flag. A token exists in the connected view iff some
// address currently maps to it with the flag true; on disconnect the flag
// flips to false but the token stays, so later status queries still resolve.
type Sessions struct {
	mu      sync.Mutex
	byAddr  map[string]string
	byToken map[string]bool
}

func NewSessions() *Sessions {
	return &Sessions{
		byAddr:  map[string]string{},
		byToken: map[string]bool{},
	}
}

// Open mints a fresh token for the peer address and marks it connected.
// Always succeeds; a reconnecting peer gets a new token, never a revived one.
func (s *Sessions) Open(addr string) string {
	token := uuid.NewString()

	s.mu.Lock()
	s.byToken[token] = true
	s.byAddr[addr] = token
	s.mu.Unlock()

	slog.Info("session opened", "user", token, "addr", addr)
	return token
}

// Connected reports whether token is known and currently connected.
func (s *Sessions) Connected(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byToken[token]
}

// Authorized reports whether token may post to or query channelID: the
// session must be connected and the channel must be the public one or a
// known token.
func (s *Sessions) Authorized(token, channelID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.byToken[token] {
		return false
	}
	if channelID == PublicChannel {
		return true
	}
	_, known := s.byToken[channelID]
	return known
}

// Close removes the address mapping and flips the token's connected flag.
// Terminal: a closed token is never reused. Missing address is a no-op.
func (s *Sessions) Close(addr string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.byAddr[addr]
	if !ok {
		slog.Info("close for unknown address", "addr", addr)
		return
	}
	delete(s.byAddr, addr)
	s.byToken[token] = false
	slog.Info("session closed", "user", token, "addr", addr)
}
