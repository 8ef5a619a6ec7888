// Package postgres реализует хранилище удаленной базы на PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/iudanet/echomind/internal/server/storage"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const uniqueViolation = "23505"

var (
	_ storage.RecordStorage = (*Storage)(nil)
	_ storage.UserStorage   = (*Storage)(nil)
)

// DBTX общий интерфейс *sql.DB и *sql.Tx
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Storage represents PostgreSQL storage implementation
type Storage struct {
	db   DBTX
	sql  *sql.DB
	pool *pgxpool.Pool
}

// New открывает пул соединений, выполняет миграции и возвращает хранилище
func New(ctx context.Context, dsn string) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dsn: %w", err)
	}

	cfg.MaxConns = 20
	cfg.MinConns = 2
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 30 * time.Minute
	cfg.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Storage{db: db, sql: db, pool: pool}, nil
}

// NewWithDB создает хранилище поверх готового соединения без миграций
func NewWithDB(db DBTX) *Storage {
	return &Storage{db: db}
}

// Close закрывает соединения
func (s *Storage) Close() error {
	var err error
	if s.sql != nil {
		err = s.sql.Close()
	}
	if s.pool != nil {
		s.pool.Close()
	}
	return err
}

// Ping проверяет соединение, используется health эндпоинтом
func (s *Storage) Ping(ctx context.Context) error {
	if s.pool == nil {
		return nil
	}
	return s.pool.Ping(ctx)
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("goose up failed: %w", err)
	}

	return nil
}

func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
