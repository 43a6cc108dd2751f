package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/FilipGjorgjeski/klepetalnica/protocol"
)

var ErrNoSession = errors.New("no session: connect first")

// Client is a framed TCP client for the relay. Requests are plain command
// lines sent with SendRequest; everything the server pushes back (responses
// and public-channel broadcasts alike) arrives on a background receive loop
// and is handed to the OnPayload/OnLog callbacks. The callbacks are invoked
// from that loop, so front-ends must marshal onto their own UI thread.
type Client struct {
	addr string

	mu              sync.Mutex
	conn            net.Conn
	userID          string
	awaitingConnect bool

	onPayload func(protocol.Payload)
	onLog     func(string)
}

func New(addr string) *Client {
	return &Client{addr: addr}
}

// OnPayload registers the decoded-payload callback. Must be set before the
// first request.
func (c *Client) OnPayload(fn func(protocol.Payload)) {
	c.mu.Lock()
	c.onPayload = fn
	c.mu.Unlock()
}

// OnLog registers the diagnostic callback (transport events, undecodable
// frames).
func (c *Client) OnLog(fn func(string)) {
	c.mu.Lock()
	c.onLog = fn
	c.mu.Unlock()
}

// Connect opens a session. The token arrives asynchronously in the
// "connected" payload and is captured as the client's user id.
func (c *Client) Connect() error {
	c.mu.Lock()
	c.awaitingConnect = true
	c.mu.Unlock()
	return c.SendRequest("POST /connect")
}

// SendMessage posts text to a channel using the captured session token.
func (c *Client) SendMessage(channelID, text string) error {
	userID := c.UserID()
	if userID == "" {
		return ErrNoSession
	}
	return c.SendRequest(fmt.Sprintf("POST /send %s %s %s", channelID, userID, text))
}

// Status queries the connection state of any user id.
func (c *Client) Status(userID string) error {
	return c.SendRequest("GET /status " + userID)
}

// Unread asks for this user's unread messages in a channel.
func (c *Client) Unread(channelID string) error {
	userID := c.UserID()
	if userID == "" {
		return ErrNoSession
	}
	return c.SendRequest(fmt.Sprintf("GET /unread %s %s", channelID, userID))
}

// MarkRead acknowledges the given message timestamps. The server sends no
// response frame for this verb.
func (c *Client) MarkRead(channelID string, timestamps []string) error {
	userID := c.UserID()
	if userID == "" {
		return ErrNoSession
	}
	return c.SendRequest(fmt.Sprintf("POST /read %s %s %s", strings.Join(timestamps, "/"), userID, channelID))
}

// SendRequest frames and writes one raw command line, dialing lazily on
// first use (and after a dropped connection).
func (c *Client) SendRequest(request string) error {
	c.mu.Lock()
	dialed := false
	if c.conn == nil {
		conn, err := net.Dial("tcp", c.addr)
		if err != nil {
			c.mu.Unlock()
			return err
		}
		c.conn = conn
		go c.receiveLoop(conn)
		dialed = true
	}
	conn := c.conn
	c.mu.Unlock()
	if dialed {
		c.logf("connected to %s", c.addr)
	}

	if err := protocol.WriteFrame(conn, []byte(request)); err != nil {
		c.dropConn(conn)
		return err
	}
	c.logf("sent: %s", request)
	return nil
}

func (c *Client) UserID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID
}

func (c *Client) Close() error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.userID = ""
	c.mu.Unlock()

	if conn != nil {
		return conn.Close()
	}
	return nil
}

func (c *Client) receiveLoop(conn net.Conn) {
	for {
		frame, err := protocol.ReadFrame(conn)
		if err != nil {
			c.logf("receive stopped: %v", err)
			c.dropConn(conn)
			return
		}

		var payload protocol.Payload
		if err := json.Unmarshal(frame, &payload); err != nil {
			// Bare-text error response ("Wrong method." and friends).
			c.logf("server: %s", frame)
			continue
		}

		c.mu.Lock()
		if c.awaitingConnect && payload.Status == protocol.StatusConnected {
			c.userID = payload.UserID
			c.awaitingConnect = false
		}
		fn := c.onPayload
		c.mu.Unlock()

		if fn != nil {
			fn(payload)
		}
	}
}

// dropConn resets state after a transport failure so the next request
// redials. Only the failing conn is cleared; a newer dial stays.
func (c *Client) dropConn(conn net.Conn) {
	_ = conn.Close()
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
		c.userID = ""
	}
	c.mu.Unlock()
}

func (c *Client) logf(format string, args ...any) {
	c.mu.Lock()
	fn := c.onLog
	c.mu.Unlock()
	if fn != nil {
		fn(fmt.Sprintf(format, args...))
	}
}
