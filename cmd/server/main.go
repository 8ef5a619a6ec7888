package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/iudanet/echomind/internal/server"
	"github.com/iudanet/echomind/internal/server/config"
	"github.com/iudanet/echomind/internal/server/handlers"
	"github.com/iudanet/echomind/internal/server/storage/postgres"
	"github.com/iudanet/echomind/internal/server/storage/sqlite"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// closableStorage хранилище с освобождением ресурсов
type closableStorage interface {
	server.Storage
	Close() error
}

func main() {
	if slices.Contains(os.Args[1:], "-version") || slices.Contains(os.Args[1:], "--version") {
		printVersion()
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:], os.Getenv)
	if err != nil {
		return err
	}

	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}()

	router, stopRouter := server.NewRouter(logger, store, server.Options{
		JWT: handlers.JWTConfig{
			Secret:         []byte(cfg.JWTSecret),
			AccessTokenTTL: cfg.AccessTokenTTL,
		},
		AuthRateLimit:  cfg.AuthRateLimit,
		AuthRateWindow: cfg.AuthRateWindow,
	})
	defer stopRouter()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("EchoMind server starting", "addr", cfg.Addr, "db_driver", cfg.DBDriver, "version", Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func openStorage(ctx context.Context, cfg *config.Config) (closableStorage, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		s, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		return s, nil
	default:
		s, err := sqlite.New(ctx, cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		return s, nil
	}
}

func printVersion() {
	fmt.Printf("EchoMind Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
