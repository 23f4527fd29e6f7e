package apiclient

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/model"
)

// ChatConn is a live connection to the chat relay.
type ChatConn struct {
	conn      *websocket.Conn
	writeMu   sync.Mutex
	closeOnce sync.Once
}

// DialChat opens the relay at <base>/ws, switching http(s) to ws(s).
func (c *Client) DialChat(ctx context.Context) (*ChatConn, error) {
	endpoint, err := chatURL(c.baseURL)
	if err != nil {
		return nil, err
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("dial chat %s: %w", endpoint, err)
	}
	return &ChatConn{conn: conn}, nil
}

func chatURL(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse api url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"
	return u.String(), nil
}

func (c *ChatConn) Send(message model.ChatMessage) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(message)
}

// Listen delivers every relayed message to fn until the connection closes
// or ctx is cancelled. A clean close returns nil.
func (c *ChatConn) Listen(ctx context.Context, fn func(model.ChatMessage)) error {
	stop := context.AfterFunc(ctx, func() { _ = c.Close() })
	defer stop()

	for {
		var message model.ChatMessage
		if err := c.conn.ReadJSON(&message); err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read chat message: %w", err)
		}
		fn(message)
	}
}

func (c *ChatConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.writeMu.Lock()
		_ = c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.writeMu.Unlock()
		err = c.conn.Close()
	})
	return err
}
