package storage

import (
	"errors"
	"time"
)

// Event names recorded for connection lifecycle transitions.
const (
	EventJoined = "joined"
	EventLeft   = "left"
)

// ErrStoreClosed is returned by operations on a closed store.
var ErrStoreClosed = errors.New("store is closed")

// SessionEvent is one connection lifecycle transition: a connection
// joining a room, or leaving it with the reason it left.
type SessionEvent struct {
	ID        int64     `json:"id"`
	Room      string    `json:"room"`
	ConnID    string    `json:"conn_id"`
	Event     string    `json:"event"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RoomStats summarizes recorded activity for one room.
type RoomStats struct {
	Room   string `json:"room"`
	Joins  int    `json:"joins"`
	Leaves int    `json:"leaves"`
}

// Store defines the interface for persistent lifecycle-event storage
type Store interface {
	// SaveEvent records one lifecycle event
	SaveEvent(ev *SessionEvent) error
	// RecentEvents returns up to limit newest events for a room
	RecentEvents(room string, limit int) ([]*SessionEvent, error)
	// RoomStats returns join/leave counters for a room
	RoomStats(room string) (*RoomStats, error)
	// Close releases the underlying database
	Close() error
}
