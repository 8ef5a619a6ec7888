package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/iudanet/echomind/internal/client/auth"
	"github.com/iudanet/echomind/internal/client/cli"
	"github.com/iudanet/echomind/internal/client/config"
	"github.com/iudanet/echomind/internal/client/data"
	"github.com/iudanet/echomind/internal/client/iocli"
	"github.com/iudanet/echomind/internal/client/network"
	"github.com/iudanet/echomind/internal/client/remote"
	"github.com/iudanet/echomind/internal/client/storage/boltdb"
	clientsync "github.com/iudanet/echomind/internal/client/sync"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	if slices.Contains(os.Args[1:], "-version") || slices.Contains(os.Args[1:], "--version") {
		printVersion()
		return
	}

	if err := run(); err != nil {
		if errors.Is(err, cli.ErrUnknownCommand) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, args, err := config.Load(os.Args[1:], os.Getenv)
	if err != nil {
		return err
	}

	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Открываем BoltDB storage
	store, err := boltdb.New(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	remoteClient := remote.NewClient(cfg.ServerURL, cfg.RequestTimeout)
	authService := auth.NewService(remoteClient, store, logger)
	remoteClient.SetTokenSource(authService)

	coordinator := clientsync.NewCoordinator(remoteClient, store, clientsync.Config{
		MaxAttempts:     cfg.MaxAttempts,
		PullConcurrency: cfg.PullConcurrency,
	}, logger)

	prober := network.NewHTTPProber(remoteClient, cfg.RequestTimeout)

	// начальное состояние без перехода, чтобы запуск не вызывал синхронизацию
	forced, err := store.GetForcedOffline(ctx)
	if err != nil {
		return fmt.Errorf("failed to get offline mode: %w", err)
	}
	online := !forced && prober.Probe(ctx) == nil
	logger.Debug("Initial network state", "online", online, "forced_offline", forced)

	monitor := network.NewMonitor(coordinator, authService, prober, network.Config{
		CheckInterval:   cfg.CheckInterval,
		InitiallyOnline: online,
	}, logger)

	dataService := data.NewService(store, remoteClient, monitor, authService, logger)

	c := cli.New(cli.Deps{
		IO:      iocli.NewStdio(),
		Auth:    authService,
		Data:    dataService,
		Sync:    coordinator,
		Network: monitor,
		Prober:  prober,
		Store:   store,
		Logger:  logger,
	})

	return c.Run(ctx, args)
}

func printVersion() {
	fmt.Printf("EchoMind Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
