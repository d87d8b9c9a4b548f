package notify

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"chatkit/backend"

	"github.com/gorilla/websocket"
)

// WebSocket posts each message into a chat room. The room's server
// authenticates the socket with a token in the query string and broadcasts
// every text frame to the room.
type WebSocket struct {
	endpoint string
	shown    string
	dialer   *websocket.Dialer

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewWebSocket builds the room endpoint from rawURL, room and token. The
// connection is opened on the first Notify.
func NewWebSocket(rawURL, room, token string) (*WebSocket, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid websocket url %q: %w", rawURL, err)
	}
	q := u.Query()
	if room != "" {
		q.Set("room", room)
	}
	if token != "" {
		q.Set("token", token)
	}
	u.RawQuery = q.Encode()

	return &WebSocket{
		endpoint: u.String(),
		shown:    backend.Redact(u.String()),
		dialer:   &websocket.Dialer{HandshakeTimeout: 8 * time.Second},
	}, nil
}

func (w *WebSocket) Notify(ctx context.Context, message string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.conn == nil {
		if err := w.dial(ctx); err != nil {
			return err
		}
	}
	if err := w.conn.WriteMessage(websocket.TextMessage, []byte(message)); err != nil {
		// Drop the broken connection; the next message redials.
		w.conn.Close()
		w.conn = nil
		return fmt.Errorf("websocket write: %w", err)
	}
	return nil
}

func (w *WebSocket) dial(ctx context.Context) error {
	c, resp, err := w.dialer.DialContext(ctx, w.endpoint, nil)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("dial failed: %w (status %s)", err, resp.Status)
		}
		return fmt.Errorf("dial failed: %w", err)
	}
	log.Debugf("websocket sink connected to %s", w.shown)
	w.conn = c
	go drain(c)
	return nil
}

// drain discards room traffic so control frames keep being processed.
func drain(c *websocket.Conn) {
	for {
		if _, _, err := c.NextReader(); err != nil {
			return
		}
	}
}

// Close sends a close frame and releases the connection.
func (w *WebSocket) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn == nil {
		return nil
	}
	_ = w.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	err := w.conn.Close()
	w.conn = nil
	return err
}
