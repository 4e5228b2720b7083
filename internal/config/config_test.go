package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "local", cfg.Env)
	require.Equal(t, "localhost:8080", cfg.Server.Addr())
	require.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	require.Equal(t, int32(10), cfg.Database.MaxConns)
	require.True(t, cfg.Database.Migrate)
	require.Equal(t,
		"host=localhost port=5432 user=postgres password=postgres dbname=commentfield sslmode=disable",
		cfg.Database.DSN(),
	)

	level, err := cfg.Log.SlogLevel()
	require.NoError(t, err)
	require.Equal(t, slog.LevelInfo, level)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("SERVER_HOST", "0.0.0.0")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("SERVER_READ_TIMEOUT", "3s")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("DB_MIGRATE", "false")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "prod", cfg.Env)
	require.Equal(t, "0.0.0.0:9000", cfg.Server.Addr())
	require.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	require.Equal(t, "db", cfg.Database.Host)
	require.Equal(t, int32(25), cfg.Database.MaxConns)
	require.False(t, cfg.Database.Migrate)

	level, err := cfg.Log.SlogLevel()
	require.NoError(t, err)
	require.Equal(t, slog.LevelDebug, level)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{name: "log level", key: "LOG_LEVEL", value: "loud"},
		{name: "duration", key: "SERVER_WRITE_TIMEOUT", value: "soon"},
		{name: "shutdown timeout", key: "SERVER_SHUTDOWN_TIMEOUT", value: "0s"},
		{name: "max conns", key: "DB_MAX_CONNS", value: "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
		})
	}
}
