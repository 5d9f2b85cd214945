package storage

import (
	"database/sql"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLStore implements Store interface using MySQL backend
type MySQLStore struct {
	db     *sql.DB
	mu     sync.Mutex
	closed bool
}

// NewMySQLStore creates a new MySQL-backed store from a DSN
func NewMySQLStore(dsn string) (Store, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	store := &MySQLStore{
		db: db,
	}

	if err := store.initDB(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// initDB initializes the database schema
func (s *MySQLStore) initDB() error {
	schema := `
	CREATE TABLE IF NOT EXISTS session_events (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		room VARCHAR(255) NOT NULL,
		conn_id VARCHAR(255) NOT NULL,
		event VARCHAR(32) NOT NULL,
		reason VARCHAR(32) DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_events_room (room, created_at DESC)
	)`

	_, err := s.db.Exec(schema)
	return err
}

// SaveEvent records one lifecycle event
func (s *MySQLStore) SaveEvent(ev *SessionEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}

	created := ev.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}

	_, err := s.db.Exec(
		`INSERT INTO session_events (room, conn_id, event, reason, created_at) VALUES (?, ?, ?, ?, ?)`,
		ev.Room, ev.ConnID, ev.Event, ev.Reason, created,
	)
	return err
}

// RecentEvents returns up to limit newest events for a room
func (s *MySQLStore) RecentEvents(room string, limit int) ([]*SessionEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrStoreClosed
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(
		`SELECT id, room, conn_id, event, reason, created_at
		 FROM session_events WHERE room = ? ORDER BY id DESC LIMIT ?`,
		room, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

// RoomStats returns join/leave counters for a room
func (s *MySQLStore) RoomStats(room string) (*RoomStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	stats := &RoomStats{Room: room}
	err := s.db.QueryRow(
		`SELECT
			COUNT(CASE WHEN event = ? THEN 1 END),
			COUNT(CASE WHEN event = ? THEN 1 END)
		 FROM session_events WHERE room = ?`,
		EventJoined, EventLeft, room,
	).Scan(&stats.Joins, &stats.Leaves)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// Close releases the underlying database
func (s *MySQLStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
