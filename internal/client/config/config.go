// Package config загружает настройки клиента.
//
// Порядок источников: значения по умолчанию, JSON файл (-config или
// ECHOMIND_CONFIG), переменные окружения ECHOMIND_*, флаги командной строки.
// Каждый следующий источник перекрывает предыдущий.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config настройки клиента
type Config struct {
	ServerURL       string
	DBPath          string
	LogLevel        string
	RequestTimeout  time.Duration
	CheckInterval   time.Duration
	MaxAttempts     int
	PullConcurrency int
}

// Default возвращает настройки по умолчанию
func Default() *Config {
	return &Config{
		ServerURL:       "http://localhost:8080",
		DBPath:          "echomind-client.db",
		LogLevel:        "warn",
		RequestTimeout:  30 * time.Second,
		CheckInterval:   3 * time.Second,
		MaxAttempts:     5,
		PullConcurrency: 3,
	}
}

// Duration принимает в JSON строку вида "3s" или число наносекунд
type Duration time.Duration

// UnmarshalJSON implements json.Unmarshaler
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		*d = Duration(parsed)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

// fileConfig DTO для JSON файла; отсутствующие поля не меняют текущие значения
type fileConfig struct {
	ServerURL       *string   `json:"server_url"`
	DBPath          *string   `json:"db_path"`
	LogLevel        *string   `json:"log_level"`
	RequestTimeout  *Duration `json:"request_timeout"`
	CheckInterval   *Duration `json:"check_interval"`
	MaxAttempts     *int      `json:"max_attempts"`
	PullConcurrency *int      `json:"pull_concurrency"`
}

// Load собирает конфигурацию. Возвращает аргументы, оставшиеся после флагов (команду).
func Load(args []string, getenv func(string) string) (*Config, []string, error) {
	cfg := Default()

	fs := flag.NewFlagSet("echomind", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	configPath := fs.String("config", "", "path to JSON config file")
	serverURL := fs.String("server", cfg.ServerURL, "server URL")
	dbPath := fs.String("db", cfg.DBPath, "path to local database")
	logLevel := fs.String("log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	requestTimeout := fs.Duration("timeout", cfg.RequestTimeout, "remote request timeout")
	checkInterval := fs.Duration("check-interval", cfg.CheckInterval, "network check interval")
	maxAttempts := fs.Int("max-attempts", cfg.MaxAttempts, "attempts before an operation is moved to dead letter (0 = unbounded)")
	pullConcurrency := fs.Int("pull-concurrency", cfg.PullConcurrency, "collections pulled in parallel")

	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	path := *configPath
	if path == "" {
		path = getenv("ECHOMIND_CONFIG")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, nil, err
		}
	}

	if err := cfg.loadEnv(getenv); err != nil {
		return nil, nil, err
	}

	// флаги применяются только если заданы явно
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "server":
			cfg.ServerURL = *serverURL
		case "db":
			cfg.DBPath = *dbPath
		case "log-level":
			cfg.LogLevel = *logLevel
		case "timeout":
			cfg.RequestTimeout = *requestTimeout
		case "check-interval":
			cfg.CheckInterval = *checkInterval
		case "max-attempts":
			cfg.MaxAttempts = *maxAttempts
		case "pull-concurrency":
			cfg.PullConcurrency = *pullConcurrency
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	return cfg, fs.Args(), nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if fc.ServerURL != nil {
		c.ServerURL = *fc.ServerURL
	}
	if fc.DBPath != nil {
		c.DBPath = *fc.DBPath
	}
	if fc.LogLevel != nil {
		c.LogLevel = *fc.LogLevel
	}
	if fc.RequestTimeout != nil {
		c.RequestTimeout = time.Duration(*fc.RequestTimeout)
	}
	if fc.CheckInterval != nil {
		c.CheckInterval = time.Duration(*fc.CheckInterval)
	}
	if fc.MaxAttempts != nil {
		c.MaxAttempts = *fc.MaxAttempts
	}
	if fc.PullConcurrency != nil {
		c.PullConcurrency = *fc.PullConcurrency
	}
	return nil
}

func (c *Config) loadEnv(getenv func(string) string) error {
	if v := getenv("ECHOMIND_SERVER_URL"); v != "" {
		c.ServerURL = v
	}
	if v := getenv("ECHOMIND_DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := getenv("ECHOMIND_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getenv("ECHOMIND_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid ECHOMIND_REQUEST_TIMEOUT: %w", err)
		}
		c.RequestTimeout = d
	}
	if v := getenv("ECHOMIND_CHECK_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid ECHOMIND_CHECK_INTERVAL: %w", err)
		}
		c.CheckInterval = d
	}
	if v := getenv("ECHOMIND_MAX_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid ECHOMIND_MAX_ATTEMPTS: %w", err)
		}
		c.MaxAttempts = n
	}
	return nil
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	var errs []error
	if c.ServerURL == "" {
		errs = append(errs, errors.New("server url is required"))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("db path is required"))
	}
	if c.MaxAttempts < 0 {
		errs = append(errs, errors.New("max attempts must not be negative"))
	}
	if c.CheckInterval <= 0 {
		errs = append(errs, errors.New("check interval must be positive"))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ParseLevel переводит имя уровня в slog.Level
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}
