package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessions_Lifecycle(t *testing.T) {
	s := NewSessions()

	token := s.Open("127.0.0.1:50001")
	if token == "" {
		t.Fatalf("expected a token")
	}
	if !s.Connected(token) {
		t.Fatalf("expected freshly opened session to be connected")
	}

	s.Close("127.0.0.1:50001")
	if s.Connected(token) {
		t.Fatalf("expected closed session to be not connected")
	}

	// Terminal: the token is kept but never revived.
	again := s.Open("127.0.0.1:50001")
	if again == token {
		t.Fatalf("expected a fresh token on reconnect")
	}
	if s.Connected(token) {
		t.Fatalf("reconnect must not revive the old token")
	}
	if !s.Connected(again) {
		t.Fatalf("expected new session to be connected")
	}
}

func TestSessions_UnknownToken(t *testing.T) {
	s := NewSessions()
	assert.False(t, s.Connected("unknown-id"))
	assert.False(t, s.Authorized("unknown-id", PublicChannel))
}

func TestSessions_CloseUnknownAddrIsNoop(t *testing.T) {
	s := NewSessions()
	token := s.Open("127.0.0.1:50001")

	s.Close("10.0.0.1:99")

	assert.True(t, s.Connected(token))
}

func TestSessions_Authorized(t *testing.T) {
	s := NewSessions()
	alice := s.Open("127.0.0.1:50001")
	bob := s.Open("127.0.0.1:50002")

	t.Run("public", func(t *testing.T) {
		assert.True(t, s.Authorized(alice, PublicChannel))
	})

	t.Run("direct-to-known-token", func(t *testing.T) {
		// A non-public channel id is valid iff it is itself a known token.
		assert.True(t, s.Authorized(alice, bob))
	})

	t.Run("direct-to-disconnected-token", func(t *testing.T) {
		s.Close("127.0.0.1:50002")
		// bob's token stays known, so it remains a valid target.
		assert.True(t, s.Authorized(alice, bob))
	})

	t.Run("unknown-channel", func(t *testing.T) {
		assert.False(t, s.Authorized(alice, "room-42"))
	})

	t.Run("disconnected-sender", func(t *testing.T) {
		s.Close("127.0.0.1:50001")
		assert.False(t, s.Authorized(alice, PublicChannel))
	})
}
