package storage

import (
	"database/sql"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements Store interface using SQLite backend
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.Mutex
	closed bool
}

// NewSQLiteStore creates a new SQLite-backed store
func NewSQLiteStore(dbPath string) (Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{
		db: db,
	}

	if err := store.initDB(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// initDB initializes the database schema
func (s *SQLiteStore) initDB() error {
	schema := `
	CREATE TABLE IF NOT EXISTS session_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		room TEXT NOT NULL,
		conn_id TEXT NOT NULL,
		event TEXT NOT NULL,
		reason TEXT DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_events_room ON session_events(room, created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveEvent records one lifecycle event
func (s *SQLiteStore) SaveEvent(ev *SessionEvent) error {
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
func (s *SQLiteStore) RecentEvents(room string, limit int) ([]*SessionEvent, error) {
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
func (s *SQLiteStore) RoomStats(room string) (*RoomStats, error) {
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
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// scanEvents reads session events from a result set
func scanEvents(rows *sql.Rows) ([]*SessionEvent, error) {
	events := make([]*SessionEvent, 0)
	for rows.Next() {
		ev := &SessionEvent{}
		if err := rows.Scan(&ev.ID, &ev.Room, &ev.ConnID, &ev.Event, &ev.Reason, &ev.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
