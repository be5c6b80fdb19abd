package config

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{"PORT", "CHAT_DATABASE_PATH", "CHAT_SESSION_TTL", "CHAT_LOGIN_RPS",
		"CHAT_LOGIN_BURST", "CHAT_CLEANUP_INTERVAL", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "chat.db", cfg.DatabasePath)
	assert.Equal(t, 720*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 0.2, cfg.LoginRate)
	assert.Equal(t, 5, cfg.LoginBurst)
	assert.Equal(t, time.Minute, cfg.CleanupInterval)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("CHAT_DATABASE_PATH", "/tmp/x.db")
	t.Setenv("CHAT_SESSION_TTL", "1h")
	t.Setenv("CHAT_LOGIN_RPS", "2.5")
	t.Setenv("CHAT_LOGIN_BURST", "10")
	t.Setenv("CHAT_CLEANUP_INTERVAL", "30s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/tmp/x.db", cfg.DatabasePath)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, 2.5, cfg.LoginRate)
	assert.Equal(t, 10, cfg.LoginBurst)
	assert.Equal(t, 30*time.Second, cfg.CleanupInterval)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoadInvalid(t *testing.T) {
	testCases := []struct {
		name  string
		key   string
		value string
	}{
		{name: "port not a number", key: "PORT", value: "abc"},
		{name: "negative burst", key: "CHAT_LOGIN_BURST", value: "-1"},
		{name: "bad ttl", key: "CHAT_SESSION_TTL", value: "forever"},
		{name: "zero rate", key: "CHAT_LOGIN_RPS", value: "0"},
		{name: "unknown level", key: "LOG_LEVEL", value: "loud"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent to testing.T.Chdir in Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
