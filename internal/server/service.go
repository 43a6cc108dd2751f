package server

import (
	"errors"
	"io"
	"log/slog"
	"net"

	"github.com/FilipGjorgjeski/klepetalnica/protocol"
	"github.com/FilipGjorgjeski/klepetalnica/storage"
)

// Server owns the accept loop and the per-connection handlers. The three
// shared stores are injected, each with its own internal synchronization;
// no handler holds two store locks at once.
type Server struct {
	sessions *storage.Sessions
	log      *storage.MessageLog
	queue    *storage.BroadcastQueue
	router   *Router
	hub      *Hub
}

func NewServer(sessions *storage.Sessions, log *storage.MessageLog, queue *storage.BroadcastQueue) *Server {
	return &Server{
		sessions: sessions,
		log:      log,
		queue:    queue,
		router:   NewRouter(sessions, log),
		hub:      NewHub(),
	}
}

func ListenAndServe(listenAddr string, s *Server) error {
	lis, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	return s.Serve(lis)
}

// Serve accepts connections until the listener is closed, one goroutine per
// connection.
func (s *Server) Serve(lis net.Listener) error {
	for {
		conn, err := lis.Accept()
		if err != nil {
			return err
		}
		go s.handleConn(conn)
	}
}

// handleConn is the per-connection loop: read one framed request, route it,
// write the framed response, then deliver any pending broadcasts to all live
// connections. Transport errors are fatal to this connection only.
func (s *Server) handleConn(conn net.Conn) {
	addr := conn.RemoteAddr().String()
	slog.Info("accepted connection", "addr", addr)

	live, remove := s.hub.Add(conn)
	defer func() {
		remove()
		s.sessions.Close(addr)
		_ = conn.Close()
		slog.Info("connection closed", "addr", addr)
	}()

	for {
		payload, err := protocol.ReadFrame(conn)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				slog.Error("read failed", "addr", addr, "err", err)
			}
			return
		}
		if len(payload) == 0 {
			// Orderly close.
			return
		}

		res := s.route(string(payload), addr)

		if res.Body != nil {
			if err := live.WriteFrame(res.Body); err != nil {
				slog.Error("response write failed", "addr", addr, "err", err)
				return
			}
		}
		// Enqueue only after the requester has its response, so its own
		// broadcast can never overtake it.
		if res.Broadcast != nil {
			s.queue.Enqueue(res.Broadcast)
		}
		if s.queue.Len() > 0 {
			s.hub.Flush(s.queue)
		}
	}
}

// route parses and dispatches one request line. A panicking handler degrades
// to a server-error response instead of killing the connection.
func (s *Server) route(line, addr string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("handler panic", "addr", addr, "panic", r)
			res = Result{Body: []byte(protocol.TextServerError)}
		}
	}()

	req, err := protocol.ParseRequest(line)
	if err != nil {
		slog.Error("request not parsed", "addr", addr, "err", err)
		return Result{Body: []byte(protocol.TextInvalidCommand)}
	}
	return s.router.Handle(req, addr)
}
