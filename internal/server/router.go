package server

import (
	"log/slog"
	"strings"

	"github.com/FilipGjorgjeski/klepetalnica/protocol"
	"github.com/FilipGjorgjeski/klepetalnica/storage"
)

// Result is what one routed request produces. Body is the framed response to
// the requester (nil means no response frame, used by the fire-and-forget
// read verb). Broadcast, when set, is enqueued by the connection handler
// only after Body has been written, so the requester always sees its own
// response before any broadcast its request triggered.
type Result struct {
	Body      []byte
	Broadcast []byte
}

// Router dispatches a parsed request to its verb handler. Stateless between
// calls; all shared state lives in the injected stores. A handler acquires
// at most one store lock at a time.
type Router struct {
	sessions *storage.Sessions
	log      *storage.MessageLog
}

func NewRouter(sessions *storage.Sessions, log *storage.MessageLog) *Router {
	return &Router{sessions: sessions, log: log}
}

// Each verb fixes its required method.
var verbMethods = map[string]string{
	"connect": "POST",
	"status":  "GET",
	"send":    "POST",
	"read":    "POST",
	"unread":  "GET",
}

// Handle routes one request. addr is the requester's connection identity.
// Protocol errors (wrong method, unknown verb, bad arity) yield a bare-text
// error body and no state change.
func (r *Router) Handle(req protocol.Request, addr string) Result {
	method, ok := verbMethods[req.Verb]
	if !ok {
		slog.Error("unknown verb", "verb", req.Verb, "addr", addr)
		return Result{Body: []byte(protocol.TextInvalidCommand)}
	}
	if req.Method != method {
		slog.Error("method not allowed", "method", req.Method, "verb", req.Verb)
		return Result{Body: []byte(protocol.TextWrongMethod)}
	}

	switch req.Verb {
	case "connect":
		return r.handleConnect(addr)
	case "status":
		return r.handleStatus(req.Args)
	case "send":
		return r.handleSend(req.Args)
	case "read":
		return r.handleRead(req.Args)
	default:
		return r.handleUnread(req.Args)
	}
}

func (r *Router) handleConnect(addr string) Result {
	token := r.sessions.Open(addr)
	latest := r.log.Latest(storage.PublicChannel, storage.DefaultLatestLimit)
	return Result{Body: protocol.Payload{
		Status:   protocol.StatusConnected,
		UserID:   token,
		Messages: toWire(latest),
	}.Encode()}
}

func (r *Router) handleStatus(args []string) Result {
	if len(args) < 1 {
		return Result{Body: []byte(protocol.TextInvalidCommand)}
	}
	userID := args[0]
	status := protocol.StatusNotConnected
	if r.sessions.Connected(userID) {
		status = protocol.StatusConnected
	}
	return Result{Body: protocol.Payload{Status: status, UserID: userID}.Encode()}
}

func (r *Router) handleSend(args []string) Result {
	if len(args) < 3 {
		return Result{Body: []byte(protocol.TextInvalidCommand)}
	}
	channelID, userID, text := args[0], args[1], strings.Join(args[2:], " ")

	if !r.sessions.Authorized(userID, channelID) {
		slog.Info("send rejected", "user", userID, "channel", channelID)
		return Result{Body: protocol.Payload{
			Status: protocol.StatusUserNotConnected,
			UserID: userID,
		}.Encode()}
	}

	msg := r.log.Append(channelID, userID, text)
	res := Result{Body: protocol.Payload{
		Status: protocol.StatusMessageSent,
		UserID: userID,
	}.Encode()}
	if channelID == storage.PublicChannel {
		res.Broadcast = protocol.Notification{Messages: toWire([]storage.Message{msg})}.Encode()
	}
	return res
}

func (r *Router) handleRead(args []string) Result {
	if len(args) < 3 {
		return Result{Body: []byte(protocol.TextInvalidCommand)}
	}
	timestamps := strings.Split(args[0], "/")
	userID, channelID := args[1], args[2]
	r.log.MarkRead(channelID, timestamps, userID)
	// Fire-and-forget: no response frame.
	return Result{}
}

func (r *Router) handleUnread(args []string) Result {
	if len(args) < 2 {
		return Result{Body: []byte(protocol.TextInvalidCommand)}
	}
	channelID, userID := args[0], args[1]

	if !r.sessions.Authorized(userID, channelID) {
		return Result{Body: protocol.Payload{
			Status: protocol.StatusUserNotConnected,
			UserID: userID,
		}.Encode()}
	}

	unread := r.log.Unread(channelID, userID)
	status := protocol.StatusUnreadReceived
	if len(unread) == 0 {
		status = protocol.StatusNoUnread
	}
	return Result{Body: protocol.Payload{
		Status:   status,
		UserID:   userID,
		Messages: toWire(unread),
	}.Encode()}
}

func toWire(msgs []storage.Message) []protocol.Message {
	res := make([]protocol.Message, 0, len(msgs))
	for _, m := range msgs {
		res = append(res, protocol.Message{Timestamp: m.Timestamp, UserID: m.UserID, Message: m.Text})
	}
	return res
}
