package storage

import (
	"fmt"

	"wsrooms/pkg/config"
)

// NewStore returns a concrete Store based on database configuration.
// Fallback to sqlite when type is not provided.
func NewStore(cfg config.DatabaseConfig) (Store, error) {
	switch cfg.Type {
	case "sqlite", "":
		return NewSQLiteStore(cfg.Path)
	case "mysql":
		return NewMySQLStore(cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}
