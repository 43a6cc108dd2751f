package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRequest(t *testing.T) {

	t.Run("send-with-message-text", func(t *testing.T) {
		req, err := ParseRequest("POST /send public abcd-1234 hello   world")
		assert.NoError(t, err)
		assert.Equal(t, "POST", req.Method)
		assert.Equal(t, "send", req.Verb)
		assert.Equal(t, []string{"public", "abcd-1234", "hello", "world"}, req.Args)
	})

	t.Run("connect-no-args", func(t *testing.T) {
		req, err := ParseRequest("POST /connect")
		assert.NoError(t, err)
		assert.Equal(t, "connect", req.Verb)
		assert.Empty(t, req.Args)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := ParseRequest("   ")
		assert.ErrorIs(t, err, ErrEmptyRequest)
	})

	t.Run("method-only", func(t *testing.T) {
		_, err := ParseRequest("GET")
		assert.ErrorIs(t, err, ErrBadRequest)
	})
}
