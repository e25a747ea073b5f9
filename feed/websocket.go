package feed

import (
	"context"

	"github.com/gorilla/websocket"
)

// Conn is the receive-only surface the adapter needs from a socket. The
// client never sends frames in this design.
type Conn interface {
	ReadMessage() ([]byte, error)
	Close() error
}

// Dialer opens a Conn to the feed endpoint.
type Dialer interface {
	DialContext(ctx context.Context, url string) (Conn, error)
}

// WebsocketDialer dials with gorilla/websocket.
type WebsocketDialer struct {
	dialer *websocket.Dialer
}

// NewWebsocketDialer returns a dialer with default handshake settings.
func NewWebsocketDialer() *WebsocketDialer {
	return &WebsocketDialer{dialer: websocket.DefaultDialer}
}

func (d *WebsocketDialer) DialContext(ctx context.Context, url string) (Conn, error) {
	conn, resp, err := d.dialer.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}
	return &wsConn{conn: conn}, nil
}

type wsConn struct {
	conn *websocket.Conn
}

func (c *wsConn) ReadMessage() ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	return data, err
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}
