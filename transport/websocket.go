package transport

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"matchmaking/message"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = time.Minute
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20

	// pushQueueSize bounds the async push backlog per session; a session
	// that cannot drain its pushes is closed.
	pushQueueSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// handleSocket upgrades the connection and runs one session until either
// side closes. Requests arrive as text frames carrying one envelope each;
// responses and pushes go back the same way.
func (s *Server) handleSocket(ctx *gin.Context) {
	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		// Upgrade already replied with an error
		return
	}

	session := newWsSession(conn)
	defer func() {
		s.dispatcher.NotifySessionClosed(session)
		session.close()
	}()

	go session.writePump()

	ipv4, ipv6 := clientAddresses(ctx.ClientIP())
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		req, err := message.DecodeRequest(data)
		if err != nil {
			slog.Debug("dropping malformed socket frame", "error", err)
			continue
		}

		resp := s.dispatcher.DispatchOrCreateError(ctx.Request.Context(), req, ipv4, ipv6, session)
		if err := session.SendSync(resp); err != nil {
			return
		}
	}
}

// wsSession is the dispatch.Session a socket connection presents to the
// handlers. Synchronous sends answer requests in order; asynchronous sends
// carry subscription pushes through a bounded queue drained by the write
// pump.
type wsSession struct {
	conn    *websocket.Conn
	writeMu sync.Mutex

	outMu  sync.Mutex
	out    chan message.Response
	closed bool
}

func newWsSession(conn *websocket.Conn) *wsSession {
	return &wsSession{
		conn: conn,
		out:  make(chan message.Response, pushQueueSize),
	}
}

func (s *wsSession) SendSync(resp message.Response) error {
	data, err := message.EncodeResponse(resp)
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// SendAsync never blocks the committing goroutine; a full queue drops the
// push. The subscriber catches up on the next commit. A push racing session
// teardown is dropped.
func (s *wsSession) SendAsync(resp message.Response) {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.out <- resp:
	default:
		slog.Warn("push queue full, dropping room update")
	}
}

func (s *wsSession) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case resp, ok := <-s.out:
			if !ok {
				return
			}
			if err := s.SendSync(resp); err != nil {
				return
			}
		case <-ticker.C:
			s.writeMu.Lock()
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := s.conn.WriteMessage(websocket.PingMessage, nil)
			s.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

func (s *wsSession) close() {
	s.outMu.Lock()
	if !s.closed {
		s.closed = true
		close(s.out)
	}
	s.outMu.Unlock()

	s.writeMu.Lock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	s.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	s.writeMu.Unlock()
	s.conn.Close()
}
