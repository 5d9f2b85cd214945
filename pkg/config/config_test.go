package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestLoadConfig tests loading default config
func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load default config: %v", err)
	}
	if cfg == nil {
		t.Fatal("Config is nil")
	}
}

// TestLoadConfigDefaults tests default values are set
func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Address == "" {
		t.Error("Address should not be empty")
	}
	if cfg.Database.Path == "" {
		t.Error("Database path should not be empty")
	}
	if cfg.Pool.EvictIntervalSeconds < 1 {
		t.Error("Eviction interval should default to a positive value")
	}
	if cfg.Pool.MaxMessageBytes < 1 {
		t.Error("Max message size should default to a positive value")
	}
}

// TestLoadConfigFromFile tests YAML file loading
func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("address: \":9090\"\npool:\n  evict_interval_seconds: 5\nlogging:\n  level: debug\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Address != ":9090" {
		t.Errorf("Expected address :9090, got %s", cfg.Address)
	}
	if cfg.Pool.EvictIntervalSeconds != 5 {
		t.Errorf("Expected evict interval 5, got %d", cfg.Pool.EvictIntervalSeconds)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected log level debug, got %s", cfg.Logging.Level)
	}
	// Untouched sections keep their defaults.
	if cfg.Database.Type != "sqlite" {
		t.Errorf("Expected default database type sqlite, got %s", cfg.Database.Type)
	}
}

// TestEnvOverrides tests environment variable overrides
func TestEnvOverrides(t *testing.T) {
	t.Setenv("WSROOMS_ADDR", ":7070")
	t.Setenv("WSROOMS_LOG_LEVEL", "warn")
	t.Setenv("WSROOMS_EVICT_INTERVAL", "7")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Address != ":7070" {
		t.Errorf("Expected address :7070, got %s", cfg.Address)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Expected log level warn, got %s", cfg.Logging.Level)
	}
	if cfg.Pool.EvictIntervalSeconds != 7 {
		t.Errorf("Expected evict interval 7, got %d", cfg.Pool.EvictIntervalSeconds)
	}
}

// TestValidateRejectsBadValues tests validation failures
func TestValidateRejectsBadValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Address = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Empty address should fail validation")
	}

	cfg = DefaultConfig()
	cfg.Database.Type = "mongodb"
	if err := cfg.Validate(); err == nil {
		t.Error("Unsupported database type should fail validation")
	}

	cfg = DefaultConfig()
	cfg.Logging.Level = "loud"
	if err := cfg.Validate(); err == nil {
		t.Error("Invalid log level should fail validation")
	}

	cfg = DefaultConfig()
	cfg.Pool.EvictIntervalSeconds = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Zero eviction interval should fail validation")
	}

	cfg = DefaultConfig()
	cfg.TLS.Enabled = true
	if err := cfg.Validate(); err == nil {
		t.Error("TLS without cert/key should fail validation")
	}
}

// TestPoolDurations tests duration helpers
func TestPoolDurations(t *testing.T) {
	p := PoolConfig{
		EvictIntervalSeconds: 54,
		WriteTimeoutSeconds:  10,
		PongTimeoutSeconds:   60,
	}
	if p.EvictInterval() != 54*time.Second {
		t.Errorf("EvictInterval() = %v", p.EvictInterval())
	}
	if p.WriteTimeout() != 10*time.Second {
		t.Errorf("WriteTimeout() = %v", p.WriteTimeout())
	}
	if p.PongTimeout() != 60*time.Second {
		t.Errorf("PongTimeout() = %v", p.PongTimeout())
	}
}

// TestConfigString tests String() method
func TestConfigString(t *testing.T) {
	cfg := &ServerConfig{
		Address: ":8080",
		Database: DatabaseConfig{
			Type: "sqlite",
			Path: "wsrooms.db",
		},
	}
	s := cfg.String()
	if s == "" {
		t.Error("String() should not return empty string")
	}
}
