package pool

import "context"

// Message kinds carried by a Conn. The values match the RFC 6455 data
// frame opcodes, which is also what gorilla/websocket uses.
const (
	TextMessage   = 1
	BinaryMessage = 2
)

// Conn is the connection handle consumed by the pool: an already-open,
// full-duplex, message-oriented transport. Implementations must tolerate
// one concurrent reader plus one concurrent writer; the pool itself never
// serializes a Send against a Receive on the same connection.
type Conn interface {
	// IsOpen reports whether the transport is still open and no close
	// has been negotiated. It may change to false at any time.
	IsOpen() bool

	// Write sends one complete message of the given kind. Cancelling ctx
	// unblocks the write. Any error means the message may not have been
	// delivered and the connection should be considered dead.
	Write(ctx context.Context, kind int, payload []byte) error

	// Read blocks until the next complete message arrives. It returns
	// ErrPeerClosed (possibly wrapped) once the remote end has sent a
	// close frame. The returned slice is owned by the caller.
	Read(ctx context.Context) (kind int, payload []byte, err error)

	// Close tears the transport down with a status code and reason.
	Close(code int, reason string) error
}
