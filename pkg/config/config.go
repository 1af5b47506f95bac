// ABOUTME: Configuration management for the reader with environment variable support
// ABOUTME: Covers layout constants, mirror backend, library backend and speech defaults

package config

import (
	"errors"
	"os"
	"strconv"
)

// Config holds all reader configuration.
type Config struct {
	// Layout contains pagination layout constants
	Layout LayoutConfig

	// Mirror contains local mirror store configuration
	Mirror MirrorConfig

	// Library contains library backend configuration
	Library LibraryConfig

	// Speech contains narration defaults
	Speech SpeechConfig

	// Log contains logging configuration
	Log LogConfig
}

// LayoutConfig holds pagination layout constants in CSS pixels.
type LayoutConfig struct {
	// TopPadding is the fixed top padding
	TopPadding int

	// MinBottomPadding is the smallest allowed bottom padding
	MinBottomPadding int

	// DefaultSidePadding is used when the surface reports none
	DefaultSidePadding int

	// FlipDurationMs is the flip transition length in milliseconds
	FlipDurationMs int
}

// MirrorConfig holds local mirror store configuration.
type MirrorConfig struct {
	// Type specifies the mirror backend (sqlite/redis/memory)
	Type string

	// SQLitePath is the mirror database file path
	SQLitePath string

	// Redis contains Redis-specific configuration
	Redis RedisConfig
}

// RedisConfig holds Redis-specific configuration.
type RedisConfig struct {
	// Address is the Redis server address
	Address string

	// Password is the Redis authentication password
	Password string

	// DB is the Redis database number
	DB int
}

// LibraryConfig holds the remote library backend configuration.
type LibraryConfig struct {
	// BaseURL is the library API base URL; empty disables remote
	// persistence entirely
	BaseURL string

	// TimeoutSeconds is the HTTP client timeout
	TimeoutSeconds int
}

// SpeechConfig holds narration defaults.
type SpeechConfig struct {
	// DefaultLanguage is the fallback language code for synthesis
	DefaultLanguage string

	// DefaultRate is the initial speaking rate multiplier
	DefaultRate float64
}

// LogConfig holds logging configuration.
type LogConfig struct {
	// Level is the minimum log level (debug/info/warn/error)
	Level string

	// JSON switches output to JSON format
	JSON bool
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Layout: LayoutConfig{
			TopPadding:         getEnvAsIntOrDefault("READER_TOP_PADDING", 48),
			MinBottomPadding:   getEnvAsIntOrDefault("READER_MIN_BOTTOM_PADDING", 24),
			DefaultSidePadding: getEnvAsIntOrDefault("READER_SIDE_PADDING", 56),
			FlipDurationMs:     getEnvAsIntOrDefault("READER_FLIP_DURATION_MS", 500),
		},
		Mirror: MirrorConfig{
			Type:       getEnvOrDefault("MIRROR_TYPE", "sqlite"),
			SQLitePath: getEnvOrDefault("MIRROR_SQLITE_PATH", "reader-mirror.db"),
			Redis: RedisConfig{
				Address:  getEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
				Password: getEnvOrDefault("REDIS_PASSWORD", ""),
				DB:       getEnvAsIntOrDefault("REDIS_DB", 0),
			},
		},
		Library: LibraryConfig{
			BaseURL:        getEnvOrDefault("LIBRARY_BASE_URL", ""),
			TimeoutSeconds: getEnvAsIntOrDefault("LIBRARY_TIMEOUT", 30),
		},
		Speech: SpeechConfig{
			DefaultLanguage: getEnvOrDefault("SPEECH_LANGUAGE", "en-US"),
			DefaultRate:     getEnvAsFloatOrDefault("SPEECH_RATE", 1.0),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "info"),
			JSON:  getEnvAsBoolOrDefault("LOG_JSON", false),
		},
	}

	return cfg, nil
}

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as int or a default.
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloatOrDefault returns the environment variable as float64 or a
// default.
func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvAsBoolOrDefault returns the environment variable as bool or a
// default.
func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Layout.TopPadding < 0 || c.Layout.MinBottomPadding < 0 || c.Layout.DefaultSidePadding < 0 {
		return errors.New("layout padding cannot be negative")
	}

	if c.Layout.FlipDurationMs < 1 {
		return errors.New("flip duration must be at least 1 millisecond")
	}

	switch c.Mirror.Type {
	case "sqlite", "redis", "memory":
	default:
		return errors.New("mirror type must be 'sqlite', 'redis' or 'memory'")
	}

	if c.Mirror.Type == "redis" && c.Mirror.Redis.Address == "" {
		return errors.New("redis address cannot be empty when using redis mirror")
	}

	if c.Speech.DefaultRate <= 0 {
		return errors.New("speech rate must be positive")
	}

	return nil
}
