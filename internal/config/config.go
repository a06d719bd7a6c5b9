package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	// BackendRedis stores cached values in a Redis instance.
	BackendRedis = "redis"
	// BackendFile stores cached values in a JSON file on disk.
	BackendFile = "file"
	// BackendMemory keeps cached values in process memory only.
	BackendMemory = "memory"
)

const (
	defaultAppName       = "LoanCompass"
	defaultAppEnv        = "development"
	defaultPort          = "8080"
	defaultLogLevel      = "info"
	defaultAPITimeout    = 15 * time.Second
	defaultMockDelay     = 300 * time.Millisecond
	defaultMockSecret    = "loan-compass-dev-secret"
	defaultStorageFile   = ".loancompass.json"
	apiTimeoutSecondsEnv = "API_TIMEOUT_SECONDS"
	apiTimeoutDurEnv     = "API_TIMEOUT"
	mockDelayEnv         = "MOCK_DELAY"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName        string
	AppEnv         string
	Port           string
	LogLevel       string
	APIBaseURL     string
	APITimeout     time.Duration
	StorageBackend string
	RedisURL       string
	StoragePath    string
	MockDelay      time.Duration
	MockSecret     string
}

// Load reads configuration values from the environment and populates a Config instance.
func Load() (Config, error) {
	cfg := Config{
		AppName:        getEnv("APP_NAME", defaultAppName),
		AppEnv:         getEnv("APP_ENV", defaultAppEnv),
		Port:           getEnv("PORT", defaultPort),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		APIBaseURL:     os.Getenv("API_BASE_URL"),
		APITimeout:     defaultAPITimeout,
		StorageBackend: strings.ToLower(getEnv("STORAGE_BACKEND", BackendFile)),
		RedisURL:       os.Getenv("REDIS_URL"),
		StoragePath:    os.Getenv("STORAGE_PATH"),
		MockDelay:      defaultMockDelay,
		MockSecret:     getEnv("MOCK_SECRET", defaultMockSecret),
	}

	if v := os.Getenv(apiTimeoutSecondsEnv); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", apiTimeoutSecondsEnv, err)
		}
		cfg.APITimeout = time.Duration(seconds) * time.Second
	} else if v := os.Getenv(apiTimeoutDurEnv); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", apiTimeoutDurEnv, err)
		}
		cfg.APITimeout = d
	}

	if v := os.Getenv(mockDelayEnv); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", mockDelayEnv, err)
		}
		cfg.MockDelay = d
	}

	switch cfg.StorageBackend {
	case BackendRedis:
		if cfg.RedisURL == "" {
			return Config{}, fmt.Errorf("REDIS_URL must be set when STORAGE_BACKEND=%s", BackendRedis)
		}
	case BackendFile:
		if cfg.StoragePath == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				home = "."
			}
			cfg.StoragePath = filepath.Join(home, defaultStorageFile)
		}
	case BackendMemory:
	default:
		return Config{}, fmt.Errorf("invalid STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	return cfg, nil
}

// MockAPI reports whether the client should use the built-in fixture API
// instead of a live endpoint.
func (c Config) MockAPI() bool {
	return c.APIBaseURL == ""
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
