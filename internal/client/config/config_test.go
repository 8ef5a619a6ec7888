package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestLoad_Defaults(t *testing.T) {
	cfg, rest, err := Load([]string{"status"}, envFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, []string{"status"}, rest)
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, 3*time.Second, cfg.CheckInterval)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "client.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"server_url": "http://file:8080",
		"db_path": "file.db",
		"check_interval": "10s",
		"request_timeout": 2000000000,
		"max_attempts": 7
	}`), 0600))

	env := envFrom(map[string]string{
		"ECHOMIND_CONFIG":     path,
		"ECHOMIND_SERVER_URL": "http://env:8080",
		"ECHOMIND_LOG_LEVEL":  "debug",
	})

	cfg, rest, err := Load([]string{"-max-attempts", "0", "journal", "list"}, env)
	require.NoError(t, err)

	assert.Equal(t, "http://env:8080", cfg.ServerURL) // env перекрывает файл
	assert.Equal(t, "file.db", cfg.DBPath)            // из файла
	assert.Equal(t, 10*time.Second, cfg.CheckInterval)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 0, cfg.MaxAttempts) // флаг перекрывает файл
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"journal", "list"}, rest)
}

func TestLoad_ConfigFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"db_path":"flag.db"}`), 0600))

	cfg, _, err := Load([]string{"-config", path, "-server", "http://flag:1"}, envFrom(nil))
	require.NoError(t, err)
	assert.Equal(t, "flag.db", cfg.DBPath)
	assert.Equal(t, "http://flag:1", cfg.ServerURL)
}

func TestLoad_Errors(t *testing.T) {
	badJSON := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(badJSON, []byte(`{"check_interval": "soon"}`), 0600))

	tests := []struct {
		env  map[string]string
		name string
		args []string
	}{
		{name: "unknown flag", args: []string{"-nope"}},
		{name: "missing file", args: []string{"-config", "/does/not/exist.json"}},
		{name: "bad duration in file", args: []string{"-config", badJSON}},
		{name: "bad env duration", env: map[string]string{"ECHOMIND_CHECK_INTERVAL": "x"}},
		{name: "bad env attempts", env: map[string]string{"ECHOMIND_MAX_ATTEMPTS": "many"}},
		{name: "negative attempts", args: []string{"-max-attempts", "-1"}},
		{name: "unknown log level", args: []string{"-log-level", "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Load(tt.args, envFrom(tt.env))
			assert.Error(t, err)
		})
	}
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	level, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}
