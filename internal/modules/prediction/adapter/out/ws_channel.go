package out

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"nhooyr.io/websocket"

	predout "roictl/internal/modules/prediction/port/out"
)

// readLimit bounds a single classification frame.
const readLimit = 64 << 10

type WSDialer struct {
	url    string
	client *http.Client
}

func NewWSDialer(url string, client *http.Client) predout.Dialer {
	return &WSDialer{url: url, client: client}
}

func (d *WSDialer) Dial(ctx context.Context) (predout.Conn, error) {
	conn, _, err := websocket.Dial(ctx, d.url, &websocket.DialOptions{HTTPClient: d.client})
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", d.url, err)
	}
	conn.SetReadLimit(readLimit)
	return &wsConn{conn: conn}, nil
}

type wsConn struct {
	conn *websocket.Conn
}

// Read maps a normal or going-away close to io.EOF.
func (c *wsConn) Read(ctx context.Context) ([]byte, error) {
	_, raw, err := c.conn.Read(ctx)
	if err != nil {
		switch websocket.CloseStatus(err) {
		case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			return nil, io.EOF
		}
		return nil, err
	}
	return raw, nil
}

func (c *wsConn) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "")
}
