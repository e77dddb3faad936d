// Package transport adapts the session protocol onto a WebSocket accept
// loop. Each accepted connection gets its own session.Session with its own
// exclusive grid.Grid; nothing here shares mutable state across
// connections except the client registry used for shutdown bookkeeping.
package transport

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"sheetd/logging"
	"sheetd/parser"
	"sheetd/seed"
	"sheetd/session"
	"sheetd/value"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server accepts WebSocket connections and runs one session per connection.
type Server struct {
	log  *logging.Logger
	seed []seed.Cell

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func NewServer(log *logging.Logger) *Server {
	return &Server{
		log:     log,
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// SetSeed configures the cells replayed into every new session's grid
// before it serves its first message. Sessions stay fully independent;
// this only seeds each one identically at creation time.
func (s *Server) SetSeed(cells []seed.Cell) {
	s.seed = cells
}

// ClientCount reports the number of currently connected clients.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) register(conn *websocket.Conn) {
	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) unregister(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.clients, conn)
	s.mu.Unlock()
	_ = conn.Close()
}

// HandleWebSocket upgrades the HTTP request and drives one session to
// completion: read a message, dispatch it, write any reply, repeat. A
// single session is strictly single-threaded: one message is handled to
// completion before the next is read, per the no-interior-mutability
// concurrency model.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Errorf("upgrade failed: %v", err)
		return
	}
	s.register(conn)
	defer s.unregister(conn)

	sess := session.New()
	for _, c := range s.seed {
		sess.Grid.UpdateCell(c.Ref, c.Raw)
	}

	for {
		msgType, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		reply := sess.Handle(raw)
		if reply == nil {
			continue
		}
		s.traceParseError(reply)
		if err := conn.WriteJSON(reply); err != nil {
			s.log.Errorf("write failed: %v", err)
			return
		}
	}
}

// traceParseError logs a Debugf trace for every Syntax error carried by
// reply, annotated with the formula text that produced it.
func (s *Server) traceParseError(reply *session.Message) {
	if reply.MsgType == session.MsgBulk {
		for i := range reply.BulkMsgs {
			s.traceParseError(&reply.BulkMsgs[i])
		}
		return
	}
	if reply.Eval == nil || !reply.Eval.IsErr() || reply.Eval.Err().Code != value.CodeSyntax || reply.Raw == nil {
		return
	}
	formula := strings.TrimPrefix(*reply.Raw, "=")
	s.log.Debugf("%s", parser.FormatParseError(reply.Eval.Err(), formula))
}

// Broadcast writes payload to every connected client concurrently,
// dropping and closing any client whose write fails.
func (s *Server) Broadcast(payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	s.mu.Lock()
	targets := make([]*websocket.Conn, 0, len(s.clients))
	for c := range s.clients {
		targets = append(targets, c)
	}
	s.mu.Unlock()

	var g errgroup.Group
	for _, conn := range targets {
		conn := conn
		g.Go(func() error {
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.unregister(conn)
			}
			return nil
		})
	}
	return g.Wait()
}
