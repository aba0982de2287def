package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Record backends
const (
	RecordsBackendHTTP     = "http"
	RecordsBackendPostgres = "postgres"
)

// Comment backends
const (
	CommentBackendRemote = "remote"
	CommentBackendMemory = "memory"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration (postgres record backend and platform surface)
	Database DatabaseConfig

	// Record platform client configuration
	Records RecordsConfig

	// Comment backend selection
	Comments CommentsConfig

	// Platform surface configuration
	Platform PlatformConfig

	// Redis rate limiting configuration
	Redis RedisConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	Name           string
	SSLMode        string
	MaxOpenConns   int
	MaxIdleConns   int
	MaxLifetime    time.Duration
	MigrationsPath string
}

// RecordsConfig selects and configures the record client
type RecordsConfig struct {
	Backend   string // "http" or "postgres"
	BaseURL   string
	APIKey    string
	ProjectID string
	Timeout   time.Duration
}

// CommentsConfig selects the comment store
type CommentsConfig struct {
	Backend string        // "remote" or "memory"
	Latency time.Duration // artificial delay of the memory store
}

// PlatformConfig controls the record platform HTTP surface
type PlatformConfig struct {
	Enabled bool
}

// RedisConfig holds rate limiter settings; an empty Addr disables limiting
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	RateLimit int
	Window    time.Duration
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnv("DB_PORT", "5432"),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", "postgres"),
			Name:           getEnv("DB_NAME", "community_records"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:   getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:   getIntEnv("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:    getDurationEnv("DB_MAX_LIFETIME", 5*time.Minute),
			MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
		},
		Records: RecordsConfig{
			Backend:   getEnv("RECORDS_BACKEND", RecordsBackendPostgres),
			BaseURL:   getEnv("RECORDS_BASE_URL", ""),
			APIKey:    getEnv("RECORDS_API_KEY", ""),
			ProjectID: getEnv("RECORDS_PROJECT_ID", ""),
			Timeout:   getDurationEnv("RECORDS_TIMEOUT", 10*time.Second),
		},
		Comments: CommentsConfig{
			Backend: getEnv("COMMENT_BACKEND", CommentBackendRemote),
			Latency: getDurationEnv("COMMENT_LATENCY", 500*time.Millisecond),
		},
		Platform: PlatformConfig{
			Enabled: getBoolEnv("PLATFORM_ENABLED", false),
		},
		Redis: RedisConfig{
			Addr:      getEnv("REDIS_ADDR", ""),
			Password:  getEnv("REDIS_PASSWORD", ""),
			DB:        getIntEnv("REDIS_DB", 0),
			RateLimit: getIntEnv("RATE_LIMIT", 120),
			Window:    getDurationEnv("RATE_WINDOW", time.Minute),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Records.Backend {
	case RecordsBackendHTTP:
		if c.Records.BaseURL == "" {
			return fmt.Errorf("RECORDS_BASE_URL is required for the http records backend")
		}
	case RecordsBackendPostgres:
	default:
		return fmt.Errorf("RECORDS_BACKEND must be one of: %s, %s", RecordsBackendHTTP, RecordsBackendPostgres)
	}

	switch c.Comments.Backend {
	case CommentBackendRemote, CommentBackendMemory:
	default:
		return fmt.Errorf("COMMENT_BACKEND must be one of: %s, %s", CommentBackendRemote, CommentBackendMemory)
	}

	if c.NeedsDatabase() {
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("DB_NAME is required")
		}
	}
	return nil
}

// NeedsDatabase reports whether any configured component uses PostgreSQL
func (c *Config) NeedsDatabase() bool {
	return c.Records.Backend == RecordsBackendPostgres || c.Platform.Enabled
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
