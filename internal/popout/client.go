package popout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Client is the pop-out's end of the channel back to its opener.
type Client struct {
	conn  *websocket.Conn
	inbox chan Message

	writeMu   sync.Mutex
	closeOnce sync.Once
}

// Dial connects to the opener URL produced by LaunchURL.
func Dial(ctx context.Context, opener string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, opener, nil)
	if err != nil {
		return nil, fmt.Errorf("dial opener: %w", err)
	}
	c := &Client{conn: conn, inbox: make(chan Message, 4)}
	go c.readLoop()
	return c, nil
}

// Messages delivers recognized messages from the opener. It is closed when
// the socket goes away.
func (c *Client) Messages() <-chan Message {
	return c.inbox
}

// NotifyClosed tells the opener this pop-out is going away.
func (c *Client) NotifyClosed() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.WriteJSON(Message{Type: PopoutClosed}); err != nil {
		return fmt.Errorf("notify opener: %w", err)
	}
	return nil
}

// Close sends a close frame and drops the socket.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.writeMu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.writeMu.Unlock()
		err = c.conn.Close()
	})
	return err
}

func (c *Client) readLoop() {
	defer close(c.inbox)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			log.Debug().Err(err).Msg("opener socket closed")
			return
		}
		m, ok := ParseMessage(data)
		if !ok {
			continue
		}
		select {
		case c.inbox <- m:
		default:
			log.Debug().Str("type", string(m.Type)).Msg("dropping opener message")
		}
	}
}
