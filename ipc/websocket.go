package ipc

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
)

// wsFramer carries one envelope per text message.
type wsFramer struct{ conn *websocket.Conn }

func (w wsFramer) ReadEnvelope() (Envelope, error) {
	kind, payload, err := w.conn.ReadMessage()
	if err != nil {
		return Envelope{}, fmt.Errorf("read message: %w", err)
	}
	if kind != websocket.TextMessage {
		return Envelope{}, fmt.Errorf("unexpected message kind %d", kind)
	}
	if len(payload) > maxFrame {
		return Envelope{}, fmt.Errorf("invalid message length: %d", len(payload))
	}
	return decodeEnvelope(payload)
}

func (w wsFramer) WriteEnvelope(e Envelope) error {
	if err := w.conn.WriteJSON(e); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

func (w wsFramer) Close() error {
	_ = w.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	return w.conn.Close()
}

// NewWSConnection wraps an established websocket.
func NewWSConnection(conn *websocket.Conn, handlers map[string]Handler) *Connection {
	conn.SetReadLimit(maxFrame)
	return newConnection(wsFramer{conn}, handlers)
}

// DialWS connects to a game host that serves websockets at url.
func DialWS(ctx context.Context, url string, handlers map[string]Handler) (*Connection, error) {
	d := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	conn, _, err := d.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return NewWSConnection(conn, handlers), nil
}
