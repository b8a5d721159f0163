package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every key Load reads; getEnv treats empty as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SERVER_HOST", "SERVER_PORT", "GRPC_PORT", "WORKER_COUNT", "WORKER_BUFFER_SIZE",
		"DB_PATH", "DATA_FILE", "DATA_SHEET", "SESSION_TTL", "REDIS_URL", "RATE_LIMIT_RPS", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 50051, cfg.GRPC.Port)
	assert.Equal(t, 4, cfg.Worker.Count)
	assert.Equal(t, 100, cfg.Worker.BufferSize)
	assert.Equal(t, "./data/disasters.db", cfg.DB.Path)
	assert.Empty(t, cfg.Data.File)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Empty(t, cfg.Session.RedisURL)
	assert.Equal(t, 20, cfg.RateLimit.RPS)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATA_FILE", "/data/emdat.xlsx")
	t.Setenv("DATA_SHEET", "EM-DAT Data")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/data/emdat.xlsx", cfg.Data.File)
	assert.Equal(t, "EM-DAT Data", cfg.Data.Sheet)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Session.RedisURL)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "eighty")
	t.Setenv("SESSION_TTL", "forever")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"port out of range", "SERVER_PORT", "70000"},
		{"grpc port", "GRPC_PORT", "0"},
		{"log level", "LOG_LEVEL", "verbose"},
		{"workers", "WORKER_COUNT", "0"},
		{"short ttl", "SESSION_TTL", "30s"},
		{"rate limit", "RATE_LIMIT_RPS", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
