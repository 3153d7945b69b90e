package popout

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// WSPath is the websocket route pop-outs connect to.
const WSPath = "/popout/ws"

// ErrNotConnected is returned by Send when no pop-out socket is attached.
var ErrNotConnected = errors.New("pop-out not connected")

// Hub is the opener's end of the cross-window channel: a loopback-only HTTP
// server accepting one websocket per pop-out session.
type Hub struct {
	ln       net.Listener
	srv      *http.Server
	upgrader websocket.Upgrader

	mu      sync.Mutex
	session string
	conn    *websocket.Conn
	seen    map[string]bool

	inbox     chan Message
	done      chan struct{}
	closeOnce sync.Once
}

// NewHub starts a hub on an ephemeral 127.0.0.1 port.
func NewHub() (*Hub, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}

	h := &Hub{
		ln:    ln,
		seen:  make(map[string]bool),
		inbox: make(chan Message, 8),
		done:  make(chan struct{}),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.GET("/healthz", h.handleHealth)
	e.GET(WSPath, h.handleSocket)
	h.srv = &http.Server{Handler: e}

	go func() {
		if err := h.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("pop-out hub stopped")
		}
	}()
	log.Debug().Str("addr", ln.Addr().String()).Msg("pop-out hub listening")
	return h, nil
}

// URL returns the websocket endpoint, without a session.
func (h *Hub) URL() string {
	return "ws://" + h.ln.Addr().String() + WSPath
}

// NewSession starts a new pop-out session and returns its id. Sockets and
// messages from earlier sessions are ignored from now on.
func (h *Hub) NewSession() string {
	id := uuid.NewString()
	h.mu.Lock()
	h.session = id
	old := h.conn
	h.conn = nil
	h.mu.Unlock()
	if old != nil {
		old.Close()
	}
	return id
}

// Retire ends session if it is still current, so a pop-out that connects
// late is refused.
func (h *Hub) Retire(session string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.session == session {
		h.session = ""
	}
}

// Messages delivers recognized messages from the current session.
func (h *Hub) Messages() <-chan Message {
	return h.inbox
}

// Send writes m to the current session's socket.
func (h *Hub) Send(m Message) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conn == nil {
		return ErrNotConnected
	}
	if err := h.conn.WriteJSON(m); err != nil {
		return fmt.Errorf("send %s: %w", m.Type, err)
	}
	return nil
}

// Connected reports whether session's pop-out currently holds a socket.
func (h *Hub) Connected(session string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.conn != nil && h.session == session
}

// Seen reports whether session's pop-out ever connected.
func (h *Hub) Seen(session string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.seen[session]
}

// Close stops the server and drops any socket.
func (h *Hub) Close() error {
	var err error
	h.closeOnce.Do(func() {
		close(h.done)
		h.mu.Lock()
		if h.conn != nil {
			h.conn.Close()
			h.conn = nil
		}
		h.mu.Unlock()
		err = h.srv.Close()
	})
	return err
}

func (h *Hub) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func (h *Hub) handleSocket(c echo.Context) error {
	id := c.QueryParam("session")
	if id == "" || !h.current(id) {
		return echo.NewHTTPError(http.StatusForbidden, "unknown session")
	}

	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	if !h.attach(id, ws) {
		ws.Close()
		return nil
	}
	defer h.detach(ws)

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			log.Debug().Err(err).Str("session", id).Msg("pop-out socket closed")
			return nil
		}
		m, ok := ParseMessage(data)
		if !ok {
			log.Debug().Bytes("payload", data).Msg("ignoring unrecognized pop-out message")
			continue
		}
		if !h.current(id) {
			continue
		}
		m.Session = id
		select {
		case h.inbox <- m:
		case <-h.done:
			return nil
		}
	}
}

func (h *Hub) current(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.session == id
}

func (h *Hub) attach(id string, ws *websocket.Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.session != id {
		return false
	}
	if h.conn != nil {
		h.conn.Close()
	}
	h.conn = ws
	h.seen[id] = true
	return true
}

func (h *Hub) detach(ws *websocket.Conn) {
	h.mu.Lock()
	if h.conn == ws {
		h.conn = nil
	}
	h.mu.Unlock()
	ws.Close()
}
