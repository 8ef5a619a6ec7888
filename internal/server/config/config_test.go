package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

const secret = "0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil, env(map[string]string{"ECHOMIND_JWT_SECRET": secret}))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "echomind.db", cfg.DBPath)
	assert.Equal(t, time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, 10, cfg.AuthRateLimit)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	cfg, err := Load(
		[]string{"-addr", ":9090", "-token-ttl", "5m", "-db-driver", "postgres"},
		env(map[string]string{
			"ECHOMIND_JWT_SECRET":      secret,
			"ECHOMIND_ADDR":            ":7070",
			"ECHOMIND_TOKEN_TTL":       "2m",
			"ECHOMIND_AUTH_RATE_LIMIT": "3",
			"DATABASE_URL":             "postgres://localhost/echomind",
		}),
	)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 3, cfg.AuthRateLimit)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, "postgres://localhost/echomind", cfg.DatabaseURL)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		env     map[string]string
		name    string
		wantErr string
		args    []string
	}{
		{name: "missing secret", env: map[string]string{}, wantErr: "jwt secret"},
		{name: "postgres without url", args: []string{"-db-driver", "postgres"}, env: map[string]string{"ECHOMIND_JWT_SECRET": secret}, wantErr: "database url"},
		{name: "unknown driver", args: []string{"-db-driver", "mysql"}, env: map[string]string{"ECHOMIND_JWT_SECRET": secret}, wantErr: "unknown db driver"},
		{name: "bad duration env", env: map[string]string{"ECHOMIND_JWT_SECRET": secret, "ECHOMIND_TOKEN_TTL": "soon"}, wantErr: "ECHOMIND_TOKEN_TTL"},
		{name: "bad level", args: []string{"-log-level", "loud"}, env: map[string]string{"ECHOMIND_JWT_SECRET": secret}, wantErr: "unknown log level"},
		{name: "unknown flag", args: []string{"-nope"}, env: map[string]string{"ECHOMIND_JWT_SECRET": secret}, wantErr: "failed to parse flags"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.args, env(tt.env))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	level, err = ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}
