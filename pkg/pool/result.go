package pool

import "errors"

// Result describes why an entry left a pool, or how a send/receive
// operation concluded.
type Result int

const (
	// ResultNone means no outcome yet: the signal is unresolved, or the
	// operation targeted an id that was not in the pool.
	ResultNone Result = iota

	// ResultNormal means the operation succeeded.
	ResultNormal

	// ResultRemoved means the entry was removed explicitly, either by a
	// caller or because its pool was disposed.
	ResultRemoved

	// ResultAborted means the connection failed or was found disconnected.
	ResultAborted

	// ResultClosedByPeer means the remote end closed the connection.
	ResultClosedByPeer
)

// String returns the lower-case name of the result.
func (r Result) String() string {
	switch r {
	case ResultNone:
		return "none"
	case ResultNormal:
		return "normal"
	case ResultRemoved:
		return "removed"
	case ResultAborted:
		return "aborted"
	case ResultClosedByPeer:
		return "closed_by_peer"
	default:
		return "unknown"
	}
}

// Pool usage errors
var (
	// ErrDuplicateID is returned by Add when the id is already registered.
	ErrDuplicateID = errors.New("id already registered")

	// ErrPoolDisposed is returned by Add after the pool has been disposed.
	ErrPoolDisposed = errors.New("pool is disposed")
)

// ErrPeerClosed is returned by Conn.Read when the remote end has sent a
// close frame. The receive loop maps it to ResultClosedByPeer; any other
// read error counts as a transport failure.
var ErrPeerClosed = errors.New("connection closed by peer")
