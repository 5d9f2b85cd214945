package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig represents server configuration
type ServerConfig struct {
	Address  string         `yaml:"address"`
	TLS      TLSConfig      `yaml:"tls"`
	Logging  LoggingConfig  `yaml:"logging"`
	Database DatabaseConfig `yaml:"database"`
	Pool     PoolConfig     `yaml:"pool"`
}

// TLSConfig represents TLS settings
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// LoggingConfig represents logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DatabaseConfig represents lifecycle-event store settings
type DatabaseConfig struct {
	Type string `yaml:"type"` // sqlite | mysql
	Path string `yaml:"path"` // file path for sqlite, DSN for mysql
}

// PoolConfig represents connection pool settings
type PoolConfig struct {
	EvictIntervalSeconds int   `yaml:"evict_interval_seconds"`
	WriteTimeoutSeconds  int   `yaml:"write_timeout_seconds"`
	PongTimeoutSeconds   int   `yaml:"pong_timeout_seconds"`
	MaxMessageBytes      int64 `yaml:"max_message_bytes"`
}

// EvictInterval returns the eviction sweep period as a duration.
func (p PoolConfig) EvictInterval() time.Duration {
	return time.Duration(p.EvictIntervalSeconds) * time.Second
}

// WriteTimeout returns the per-write deadline as a duration.
func (p PoolConfig) WriteTimeout() time.Duration {
	return time.Duration(p.WriteTimeoutSeconds) * time.Second
}

// PongTimeout returns the read deadline extended on every pong.
func (p PoolConfig) PongTimeout() time.Duration {
	return time.Duration(p.PongTimeoutSeconds) * time.Second
}

// DefaultConfig returns default configuration
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		Address: ":8080",
		TLS: TLSConfig{
			Enabled:  false,
			CertFile: "",
			KeyFile:  "",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Database: DatabaseConfig{
			Type: "sqlite",
			Path: "./wsrooms.db",
		},
		Pool: PoolConfig{
			EvictIntervalSeconds: 54,
			WriteTimeoutSeconds:  10,
			PongTimeoutSeconds:   60,
			MaxMessageBytes:      1 << 20,
		},
	}
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*ServerConfig, error) {
	config := DefaultConfig()

	// Load from file if provided
	if configPath != "" {
		if err := loadFromFile(configPath, config); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// Override with environment variables
	applyEnvOverrides(config)

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(path string, config *ServerConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return err
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides
func applyEnvOverrides(config *ServerConfig) {
	if addr := os.Getenv("WSROOMS_ADDR"); addr != "" {
		config.Address = addr
	}

	if dbType := os.Getenv("WSROOMS_DB_TYPE"); dbType != "" {
		config.Database.Type = dbType
	}

	if dbPath := os.Getenv("WSROOMS_DB_PATH"); dbPath != "" {
		config.Database.Path = dbPath
	}

	if logLevel := os.Getenv("WSROOMS_LOG_LEVEL"); logLevel != "" {
		config.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("WSROOMS_LOG_FORMAT"); logFormat != "" {
		config.Logging.Format = logFormat
	}

	if tlsEnabled := os.Getenv("WSROOMS_TLS_ENABLED"); tlsEnabled != "" {
		config.TLS.Enabled = tlsEnabled == "true"
	}

	if certFile := os.Getenv("WSROOMS_TLS_CERT_FILE"); certFile != "" {
		config.TLS.CertFile = certFile
	}

	if keyFile := os.Getenv("WSROOMS_TLS_KEY_FILE"); keyFile != "" {
		config.TLS.KeyFile = keyFile
	}

	if interval := os.Getenv("WSROOMS_EVICT_INTERVAL"); interval != "" {
		if val, err := strconv.Atoi(interval); err == nil {
			config.Pool.EvictIntervalSeconds = val
		}
	}
}

// Validate validates the configuration
func (c *ServerConfig) Validate() error {
	if c.Address == "" {
		return fmt.Errorf("server address cannot be empty")
	}

	if c.TLS.Enabled {
		if c.TLS.CertFile == "" || c.TLS.KeyFile == "" {
			return fmt.Errorf("TLS enabled but cert/key files not provided")
		}

		if _, err := os.Stat(c.TLS.CertFile); err != nil {
			return fmt.Errorf("certificate file not found: %w", err)
		}

		if _, err := os.Stat(c.TLS.KeyFile); err != nil {
			return fmt.Errorf("key file not found: %w", err)
		}
	}

	switch c.Database.Type {
	case "sqlite", "mysql", "":
	default:
		return fmt.Errorf("unsupported database type: %s", c.Database.Type)
	}

	if c.Pool.EvictIntervalSeconds < 1 {
		return fmt.Errorf("eviction interval must be at least 1 second")
	}

	if c.Pool.MaxMessageBytes < 1 {
		return fmt.Errorf("max message size must be positive")
	}

	if !isValidLogLevel(c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	return nil
}

// isValidLogLevel checks if the log level is valid
func isValidLogLevel(level string) bool {
	valid := []string{"debug", "info", "warn", "error"}
	level = strings.ToLower(level)
	for _, v := range valid {
		if level == v {
			return true
		}
	}
	return false
}

// String returns a string representation of the configuration (for logging)
func (c *ServerConfig) String() string {
	return fmt.Sprintf("Config{Address: %s, DB: %s, TLS: %v, LogLevel: %s, Evict: %ds}",
		c.Address, c.Database.Type, c.TLS.Enabled, c.Logging.Level, c.Pool.EvictIntervalSeconds)
}
