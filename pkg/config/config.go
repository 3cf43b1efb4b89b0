// ABOUTME: Configuration management for the reader service with environment variable support
// ABOUTME: Defines server, backend, storage, translation, speech and logging settings

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server contains HTTP server configuration
	Server ServerConfig

	// Backend configures the REST article service
	Backend BackendConfig

	// Reader holds reading session defaults
	Reader ReaderConfig

	// Storage selects where per-user reading state lives
	Storage StorageConfig

	// Translate configures the translation service
	Translate TranslateConfig

	// Speech configures text-to-speech synthesis
	Speech SpeechConfig

	// Log configures logging
	Log LogConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Port is the HTTP server port
	Port string

	// RateLimit is the per-client request allowance per minute
	RateLimit int

	// RateBurst is the per-client burst size
	RateBurst int
}

// BackendConfig holds REST backend settings
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// ReaderConfig holds reading session defaults
type ReaderConfig struct {
	// PageSize is the default number of paragraphs per page
	PageSize int
}

// StorageConfig holds storage backend configuration
type StorageConfig struct {
	// Type specifies the storage backend (memory/redis/sqlite)
	Type string

	// SQLitePath is the database file used when Type is sqlite
	SQLitePath string

	// Redis contains Redis-specific configuration
	Redis RedisConfig
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string

	// Password is the Redis authentication password
	Password string

	// DB is the Redis database number
	DB int

	// KeyPrefix namespaces every key so instances can share a database
	KeyPrefix string
}

// TranslateConfig holds translation service settings
type TranslateConfig struct {
	URL      string
	LangPair string

	// Interval is the minimum spacing between requests
	Interval time.Duration

	// CacheTTL bounds how long translations are remembered
	CacheTTL time.Duration
}

// SpeechConfig holds text-to-speech settings
type SpeechConfig struct {
	Enabled  bool
	Voice    string
	Language string

	// AudioTTL bounds how long synthesized clips stay downloadable
	AudioTTL time.Duration
}

// LogConfig holds logging settings
type LogConfig struct {
	Level   string
	Backend string
	File    string
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:      getEnvOrDefault("PORT", "8000"),
			RateLimit: getEnvAsIntOrDefault("RATE_LIMIT", 100),
			RateBurst: getEnvAsIntOrDefault("RATE_BURST", 20),
		},
		Backend: BackendConfig{
			BaseURL: strings.TrimRight(getEnvOrDefault("BACKEND_URL", "http://localhost:8000/api"), "/"),
			Timeout: time.Duration(getEnvAsIntOrDefault("BACKEND_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Reader: ReaderConfig{
			PageSize: getEnvAsIntOrDefault("PAGE_SIZE", 8),
		},
		Storage: StorageConfig{
			Type:       strings.ToLower(getEnvOrDefault("STORAGE_TYPE", "memory")),
			SQLitePath: getEnvOrDefault("SQLITE_PATH", "paperread.db"),
			Redis: RedisConfig{
				Address:   getEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
				Password:  getEnvOrDefault("REDIS_PASSWORD", ""),
				DB:        getEnvAsIntOrDefault("REDIS_DB", 0),
				KeyPrefix: getEnvOrDefault("REDIS_KEY_PREFIX", "paperread:"),
			},
		},
		Translate: TranslateConfig{
			URL:      getEnvOrDefault("TRANSLATE_URL", "https://api.mymemory.translated.net/get"),
			LangPair: getEnvOrDefault("TRANSLATE_LANGPAIR", "en|zh-CN"),
			Interval: time.Duration(getEnvAsIntOrDefault("TRANSLATE_INTERVAL_MS", 300)) * time.Millisecond,
			CacheTTL: time.Duration(getEnvAsIntOrDefault("TRANSLATION_CACHE_MINUTES", 720)) * time.Minute,
		},
		Speech: SpeechConfig{
			Enabled:  getEnvAsBoolOrDefault("TTS_ENABLED", false),
			Voice:    getEnvOrDefault("TTS_VOICE", "en-US-Neural2-J"),
			Language: getEnvOrDefault("TTS_LANGUAGE", "en-US"),
			AudioTTL: time.Duration(getEnvAsIntOrDefault("AUDIO_TTL_MINUTES", 60)) * time.Minute,
		},
		Log: LogConfig{
			Level:   strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
			Backend: strings.ToLower(getEnvOrDefault("LOG_BACKEND", "logrus")),
			File:    getEnvOrDefault("LOG_FILE", ""),
		},
	}

	return cfg, nil
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as int or a default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("port cannot be empty")
	}
	if c.Server.RateLimit < 1 || c.Server.RateBurst < 1 {
		return errors.New("rate limit and burst must be at least 1")
	}

	if c.Backend.BaseURL == "" {
		return errors.New("backend url cannot be empty")
	}
	if c.Backend.Timeout <= 0 {
		return errors.New("backend timeout must be positive")
	}

	if c.Reader.PageSize < 1 {
		return errors.New("page size must be at least 1")
	}

	switch c.Storage.Type {
	case "memory":
	case "redis":
		if c.Storage.Redis.Address == "" {
			return errors.New("redis address cannot be empty when using redis storage")
		}
	case "sqlite":
		if c.Storage.SQLitePath == "" {
			return errors.New("sqlite path cannot be empty when using sqlite storage")
		}
	default:
		return fmt.Errorf("storage type must be 'memory', 'redis' or 'sqlite', got %q", c.Storage.Type)
	}

	if c.Translate.URL == "" || c.Translate.LangPair == "" {
		return errors.New("translation url and language pair are required")
	}
	if c.Translate.Interval < 0 {
		return errors.New("translation interval cannot be negative")
	}

	if c.Log.Backend != "logrus" && c.Log.Backend != "zap" {
		return fmt.Errorf("log backend must be 'logrus' or 'zap', got %q", c.Log.Backend)
	}

	return nil
}
