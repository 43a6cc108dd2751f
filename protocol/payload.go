package protocol

import "encoding/json"

// Response status strings, fixed by the protocol.
const (
	StatusConnected        = "connected"
	StatusNotConnected     = "not connected"
	StatusMessageSent      = "message sent"
	StatusUserNotConnected = "user not connected"
	StatusNoUnread         = "no unread messages"
	StatusUnreadReceived   = "unread messages received"
)

// Bare-text error responses (not JSON).
const (
	TextWrongMethod    = "Wrong method."
	TextInvalidCommand = "Invalid command."
	TextServerError    = "Server-side error."
)

// Message is the wire shape of one chat message.
type Message struct {
	Timestamp string `json:"timestamp"`
	UserID    string `json:"user_id"`
	Message   string `json:"message"`
}

// Payload is the JSON body of a response frame. Messages is omitted for
// verbs that carry none; clients must tolerate its absence.
type Payload struct {
	Status   string    `json:"status"`
	UserID   string    `json:"user_id,omitempty"`
	Messages []Message `json:"messages,omitempty"`
}

// Notification wraps freshly appended public messages for broadcast frames.
type Notification struct {
	Messages []Message `json:"messages"`
}

func (p Payload) Encode() []byte {
	b, _ := json.Marshal(p)
	return b
}

func (n Notification) Encode() []byte {
	b, _ := json.Marshal(n)
	return b
}
