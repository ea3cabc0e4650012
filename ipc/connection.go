package ipc

import (
	"log/slog"
	"net"
)

// Handler processes a received envelope. Return nil to send no reply.
type Handler func(env Envelope) (*Envelope, error)

// framer moves whole envelopes over some transport.
type framer interface {
	ReadEnvelope() (Envelope, error)
	WriteEnvelope(Envelope) error
	Close() error
}

type streamFramer struct{ conn net.Conn }

func (s streamFramer) ReadEnvelope() (Envelope, error) { return ReadEnvelope(s.conn) }
func (s streamFramer) WriteEnvelope(e Envelope) error  { return WriteEnvelope(s.conn, e) }
func (s streamFramer) Close() error                    { return s.conn.Close() }

// Connection is one game host talking to the bot. The host opens with a
// hello, then sends a frame per turn and expects commands back.
type Connection struct {
	f        framer
	handlers map[string]Handler
	Player   string
}

// NewConnection wraps a stream socket using length-prefixed envelopes.
func NewConnection(conn net.Conn, handlers map[string]Handler) *Connection {
	return newConnection(streamFramer{conn}, handlers)
}

func newConnection(f framer, handlers map[string]Handler) *Connection {
	if handlers == nil {
		handlers = make(map[string]Handler)
	}
	return &Connection{
		f:        f,
		handlers: handlers,
	}
}

func (c *Connection) RegisterHandler(msgType string, handler Handler) {
	c.handlers[msgType] = handler
}

func (c *Connection) Close() error { return c.f.Close() }

// ReadLoop blocks until the connection closes or errors. It owns the conn lifetime
// so callers don't need to track cleanup.
func (c *Connection) ReadLoop() {
	defer c.f.Close()

	for {
		env, err := c.f.ReadEnvelope()
		if err != nil {
			slog.Info("connection read ended", "player", c.Player, "error", err)
			return
		}

		handler, ok := c.handlers[env.Type]
		if !ok {
			slog.Warn("no handler for message type", "type", env.Type)
			continue
		}

		resp, err := handler(env)
		if err != nil {
			slog.Error("handler error", "type", env.Type, "error", err)
			continue
		}

		if resp != nil {
			if err := c.f.WriteEnvelope(*resp); err != nil {
				slog.Error("failed to send response", "type", resp.Type, "error", err)
				return
			}
			slog.Debug("sent response", "type", resp.Type, "player", c.Player)
		}
	}
}
