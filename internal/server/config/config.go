// Package config загружает настройки сервера.
//
// Порядок источников: значения по умолчанию, переменные окружения
// ECHOMIND_*, флаги командной строки.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// Драйверы хранилища
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config настройки сервера
type Config struct {
	Addr            string
	DBDriver        string
	DBPath          string
	DatabaseURL     string
	JWTSecret       string
	LogLevel        string
	AccessTokenTTL  time.Duration
	ShutdownTimeout time.Duration
	AuthRateLimit   int
	AuthRateWindow  time.Duration
}

// Default возвращает настройки по умолчанию
func Default() *Config {
	return &Config{
		Addr:            ":8080",
		DBDriver:        DriverSQLite,
		DBPath:          "echomind.db",
		LogLevel:        "info",
		AccessTokenTTL:  time.Hour,
		ShutdownTimeout: 10 * time.Second,
		AuthRateLimit:   10,
		AuthRateWindow:  time.Minute,
	}
}

// Load собирает конфигурацию из окружения и флагов
func Load(args []string, getenv func(string) string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadEnv(getenv); err != nil {
		return nil, err
	}

	fs := flag.NewFlagSet("echomind-server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fs.StringVar(&cfg.DBDriver, "db-driver", cfg.DBDriver, "storage driver: sqlite or postgres")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "sqlite database path")
	fs.StringVar(&cfg.DatabaseURL, "database-url", cfg.DatabaseURL, "postgres connection string")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "secret for signing access tokens")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.DurationVar(&cfg.AccessTokenTTL, "token-ttl", cfg.AccessTokenTTL, "access token lifetime")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "graceful shutdown timeout")
	fs.IntVar(&cfg.AuthRateLimit, "auth-rate-limit", cfg.AuthRateLimit, "auth requests per window and address")
	fs.DurationVar(&cfg.AuthRateWindow, "auth-rate-window", cfg.AuthRateWindow, "auth rate limit window")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadEnv(getenv func(string) string) error {
	strs := map[string]*string{
		"ECHOMIND_ADDR":       &c.Addr,
		"ECHOMIND_DB_DRIVER":  &c.DBDriver,
		"ECHOMIND_DB_PATH":    &c.DBPath,
		"DATABASE_URL":        &c.DatabaseURL,
		"ECHOMIND_JWT_SECRET": &c.JWTSecret,
		"ECHOMIND_LOG_LEVEL":  &c.LogLevel,
	}
	for key, dst := range strs {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"ECHOMIND_TOKEN_TTL":        &c.AccessTokenTTL,
		"ECHOMIND_SHUTDOWN_TIMEOUT": &c.ShutdownTimeout,
		"ECHOMIND_AUTH_RATE_WINDOW": &c.AuthRateWindow,
	}
	for key, dst := range durations {
		if v := getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			*dst = d
		}
	}

	if v := getenv("ECHOMIND_AUTH_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid ECHOMIND_AUTH_RATE_LIMIT: %w", err)
		}
		c.AuthRateLimit = n
	}
	return nil
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	var errs []error
	switch c.DBDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			errs = append(errs, errors.New("db path is required for sqlite"))
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("database url is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown db driver %q", c.DBDriver))
	}
	if len(c.JWTSecret) < 16 {
		errs = append(errs, errors.New("jwt secret must be at least 16 characters"))
	}
	if c.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("token ttl must be positive"))
	}
	if c.AuthRateLimit <= 0 || c.AuthRateWindow <= 0 {
		errs = append(errs, errors.New("auth rate limit and window must be positive"))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ParseLevel переводит имя уровня в slog.Level
func ParseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
	return l, nil
}
