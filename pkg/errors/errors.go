package errors

import "errors"

// Room and connection errors
var (
	// ErrRoomNotFound is returned when a room is not registered
	ErrRoomNotFound = errors.New("room not found")

	// ErrConnectionNotFound is returned when a connection id is not in the room
	ErrConnectionNotFound = errors.New("connection not found")

	// ErrConnectionLost is returned when a delivery target turned out dead
	ErrConnectionLost = errors.New("connection lost")
)

// Storage errors
var (
	// ErrStoreUnavailable is returned when the event store is not configured
	ErrStoreUnavailable = errors.New("event store not available")
)
