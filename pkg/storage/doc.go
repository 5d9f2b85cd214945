// Package storage persists connection lifecycle events: every join and
// every departure (with the reason it happened) is recorded per room so
// operators can audit churn after the fact. SQLite and MySQL backends are
// available behind the Store interface; the factory picks one from the
// database configuration.
package storage
