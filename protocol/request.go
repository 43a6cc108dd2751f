package protocol

import (
	"errors"
	"strings"
)

var (
	ErrEmptyRequest = errors.New("empty request")
	ErrBadRequest   = errors.New("request must contain '<METHOD> </verb>'")
)

// Request is one parsed command line, e.g. "POST /send public <token> hi".
type Request struct {
	Method string
	Verb   string // without the leading slash
	Args   []string
}

// ParseRequest splits a UTF-8 command line on whitespace. The first token is
// the method, the second the slash-prefixed verb, the rest positional
// arguments. Verb casing is preserved; methods are matched exactly (GET/POST).
func ParseRequest(line string) (Request, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Request{}, ErrEmptyRequest
	}
	if len(fields) < 2 {
		return Request{}, ErrBadRequest
	}
	return Request{
		Method: fields[0],
		Verb:   strings.TrimPrefix(fields[1], "/"),
		Args:   fields[2:],
	}, nil
}
