package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the dev backend.
type Config struct {
	// Port is the HTTP server port.
	Port int

	// DatabasePath is the SQLite database file.
	DatabasePath string

	// SessionTTL is how long an issued session token stays valid.
	SessionTTL time.Duration

	// LoginRate is the sustained number of failed sign-ins per second allowed
	// for one email, and LoginBurst how many may happen back to back.
	LoginRate  float64
	LoginBurst int

	// CleanupInterval is how often expired tokens are pruned.
	CleanupInterval time.Duration

	// LogLevel is the minimum level logged.
	LogLevel slog.Level
}

// Load reads configuration from environment variables with sensible defaults.
// Variables may also come from a .env file in the working directory; values
// already in the environment win.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	port, err := intEnv("PORT", 8080)
	if err != nil {
		return nil, err
	}

	dbPath := os.Getenv("CHAT_DATABASE_PATH")
	if dbPath == "" {
		dbPath = "chat.db"
	}

	ttl, err := durationEnv("CHAT_SESSION_TTL", 720*time.Hour)
	if err != nil {
		return nil, err
	}

	loginRate := 0.2
	if v := os.Getenv("CHAT_LOGIN_RPS"); v != "" {
		loginRate, err = strconv.ParseFloat(v, 64)
		if err != nil || loginRate <= 0 {
			return nil, fmt.Errorf("invalid CHAT_LOGIN_RPS: %q", v)
		}
	}

	loginBurst, err := intEnv("CHAT_LOGIN_BURST", 5)
	if err != nil {
		return nil, err
	}

	cleanup, err := durationEnv("CHAT_CLEANUP_INTERVAL", time.Minute)
	if err != nil {
		return nil, err
	}

	level := slog.LevelInfo
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if err := level.UnmarshalText([]byte(strings.ToUpper(v))); err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
	}

	return &Config{
		Port:            port,
		DatabasePath:    dbPath,
		SessionTTL:      ttl,
		LoginRate:       loginRate,
		LoginBurst:      loginBurst,
		CleanupInterval: cleanup,
		LogLevel:        level,
	}, nil
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return n, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}
