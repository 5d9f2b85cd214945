package pool

import (
	"context"
	"errors"
	"sync"
)

// fakeMsg is one scripted read result for a fakeConn.
type fakeMsg struct {
	kind    int
	payload []byte
	err     error
}

// fakeConn is an in-memory Conn for tests. Reads are fed through a
// channel so tests can script messages, peer closes, and failures.
type fakeConn struct {
	mu       sync.Mutex
	open     bool
	writeErr error
	written  [][]byte
	incoming chan fakeMsg
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		open:     true,
		incoming: make(chan fakeMsg, 16),
	}
}

func (c *fakeConn) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

func (c *fakeConn) setOpen(open bool) {
	c.mu.Lock()
	c.open = open
	c.mu.Unlock()
}

func (c *fakeConn) failWrites(err error) {
	c.mu.Lock()
	c.writeErr = err
	c.mu.Unlock()
}

func (c *fakeConn) Write(_ context.Context, _ int, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return c.writeErr
	}
	if !c.open {
		return errors.New("write on closed connection")
	}
	c.written = append(c.written, payload)
	return nil
}

func (c *fakeConn) writeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.written)
}

func (c *fakeConn) Read(ctx context.Context) (int, []byte, error) {
	select {
	case msg := <-c.incoming:
		// A transport error leaves the connection closed, like the
		// real adapter does.
		if msg.err != nil {
			c.setOpen(false)
		}
		return msg.kind, msg.payload, msg.err
	case <-ctx.Done():
		return 0, nil, ctx.Err()
	}
}

func (c *fakeConn) deliver(payload []byte) {
	c.incoming <- fakeMsg{kind: TextMessage, payload: payload}
}

func (c *fakeConn) failRead(err error) {
	c.incoming <- fakeMsg{err: err}
}

// peerClose queues a close from the remote side. The connection stays
// open until the close is consumed by Read, like a real socket.
func (c *fakeConn) peerClose() {
	c.incoming <- fakeMsg{err: ErrPeerClosed}
}

func (c *fakeConn) Close(int, string) error {
	c.setOpen(false)
	return nil
}
