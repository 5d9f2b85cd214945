package pool

import (
	"context"
	"sync"
)

// Entry binds an identifier to a connection and a completion signal. An
// entry is created by Pool.Add and is immutable apart from the one-time
// resolution of its signal; a new Add under the same id after removal
// produces a brand-new Entry with a brand-new signal.
type Entry struct {
	id   string
	conn Conn

	once   sync.Once
	result Result
	done   chan struct{}
}

func newEntry(id string, conn Conn) *Entry {
	return &Entry{
		id:   id,
		conn: conn,
		done: make(chan struct{}),
	}
}

// ID returns the identifier the entry was registered under.
func (e *Entry) ID() string {
	return e.id
}

// Conn returns the connection the entry owns.
func (e *Entry) Conn() Conn {
	return e.conn
}

// IsConnected reports whether the underlying transport is still open.
// Recomputed on every call; it can flip to false concurrently with any
// pool operation.
func (e *Entry) IsConnected() bool {
	return e.conn.IsOpen()
}

// complete resolves the completion signal. First writer wins; the return
// value reports whether this call was the one that resolved it.
func (e *Entry) complete(r Result) bool {
	won := false
	e.once.Do(func() {
		e.result = r
		close(e.done)
		won = true
	})
	return won
}

// Wait blocks until the entry's completion signal resolves or ctx is
// cancelled. Cancellation unblocks only this waiter and returns ctx's
// error; it never resolves the signal. Every waiter that returns without
// error observes the same Result.
func (e *Entry) Wait(ctx context.Context) (Result, error) {
	select {
	case <-e.done:
		return e.result, nil
	case <-ctx.Done():
		return ResultNone, ctx.Err()
	}
}

// Outcome returns the resolved result without blocking, or ResultNone
// while the entry is still in its pool.
func (e *Entry) Outcome() Result {
	select {
	case <-e.done:
		return e.result
	default:
		return ResultNone
	}
}

// Done returns a channel closed when the entry leaves its pool.
func (e *Entry) Done() <-chan struct{} {
	return e.done
}
