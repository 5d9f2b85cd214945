package server

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"wsrooms/pkg/pool"

	"github.com/gorilla/websocket"
)

// wsConn adapts a gorilla websocket connection to pool.Conn.
//
// Gorilla connections support one concurrent reader and one concurrent
// writer, so all data writes are serialized through writeMu. Control
// frames (ping, close) go through WriteControl, which gorilla allows
// concurrently with data writes.
type wsConn struct {
	conn         *websocket.Conn
	writeMu      sync.Mutex
	writeTimeout time.Duration
	closed       atomic.Bool
}

func newWSConn(conn *websocket.Conn, pongTimeout, writeTimeout time.Duration, maxMessageBytes int64) *wsConn {
	c := &wsConn{
		conn:         conn,
		writeTimeout: writeTimeout,
	}
	conn.SetReadLimit(maxMessageBytes)
	conn.SetReadDeadline(time.Now().Add(pongTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongTimeout))
		return nil
	})
	return c
}

// IsOpen reports whether the connection is still usable.
func (c *wsConn) IsOpen() bool {
	return !c.closed.Load()
}

// Write sends one message. Writes are serialized; a failed write marks
// the connection closed so the pool can evict it.
func (c *wsConn) Write(ctx context.Context, kind int, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	deadline := time.Now().Add(c.writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	c.conn.SetWriteDeadline(deadline)

	if err := c.conn.WriteMessage(kind, payload); err != nil {
		c.closed.Store(true)
		return err
	}
	return nil
}

// Read blocks for the next message. A close frame from the peer is
// reported as pool.ErrPeerClosed; context cancellation interrupts the
// blocked read by forcing the read deadline.
func (c *wsConn) Read(ctx context.Context) (int, []byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			c.conn.SetReadDeadline(time.Now())
		case <-done:
		}
	}()

	kind, payload, err := c.conn.ReadMessage()
	if err != nil {
		c.closed.Store(true)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, nil, ctxErr
		}
		if websocket.IsCloseError(err,
			websocket.CloseNormalClosure,
			websocket.CloseGoingAway,
			websocket.CloseNoStatusReceived) {
			return 0, nil, pool.ErrPeerClosed
		}
		return 0, nil, err
	}
	return kind, payload, nil
}

// Ping sends a ping control frame.
func (c *wsConn) Ping() error {
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.writeTimeout))
}

// Close sends a close frame with the given code and reason, then tears
// down the underlying connection.
func (c *wsConn) Close(code int, reason string) error {
	if !c.closed.Swap(true) {
		msg := websocket.FormatCloseMessage(code, reason)
		c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(c.writeTimeout))
	}
	return c.conn.Close()
}
