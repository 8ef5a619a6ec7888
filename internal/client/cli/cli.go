// Package cli реализует команды клиента EchoMind.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iudanet/echomind/internal/client/auth"
	"github.com/iudanet/echomind/internal/client/data"
	"github.com/iudanet/echomind/internal/client/iocli"
	"github.com/iudanet/echomind/internal/client/network"
	"github.com/iudanet/echomind/internal/client/storage"
	clientsync "github.com/iudanet/echomind/internal/client/sync"
)

// ErrUnknownCommand команда не распознана
var ErrUnknownCommand = errors.New("unknown command")

// Deps зависимости CLI, собранные в main
type Deps struct {
	IO      iocli.IO
	Auth    *auth.Service
	Data    *data.Service
	Sync    *clientsync.Coordinator
	Network *network.Monitor
	Prober  network.Prober
	Store   storage.Storage
	Logger  *slog.Logger
}

type Cli struct {
	io      iocli.IO
	auth    *auth.Service
	data    *data.Service
	sync    *clientsync.Coordinator
	network *network.Monitor
	prober  network.Prober
	store   storage.Storage
	logger  *slog.Logger
}

func New(d Deps) *Cli {
	return &Cli{
		io:      d.IO,
		auth:    d.Auth,
		data:    d.Data,
		sync:    d.Sync,
		network: d.Network,
		prober:  d.Prober,
		store:   d.Store,
		logger:  d.Logger,
	}
}

// Run выполняет команду args[0] с аргументами args[1:]
func (c *Cli) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		c.PrintUsage()
		return fmt.Errorf("%w: no command given", ErrUnknownCommand)
	}

	command, rest := args[0], args[1:]
	switch command {
	case "register":
		return c.runRegister(ctx, rest)
	case "login":
		return c.runLogin(ctx, rest)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus(ctx)
	case "journal":
		return c.runJournal(ctx, rest)
	case "chat":
		return c.runChat(ctx, rest)
	case "prompt":
		return c.runPrompt(ctx, rest)
	case "sync":
		return c.runSync(ctx)
	case "pending":
		return c.runPending(ctx, rest)
	case "watch":
		return c.runWatch(ctx)
	case "offline":
		return c.runOffline(ctx)
	case "online":
		return c.runOnline(ctx)
	case "help":
		c.PrintUsage()
		return nil
	default:
		c.PrintUsage()
		return fmt.Errorf("%w: %s", ErrUnknownCommand, command)
	}
}

// requireSession возвращает текущую сессию или понятную ошибку
func (c *Cli) requireSession(ctx context.Context) (*storage.Session, error) {
	session, err := c.auth.Session(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return nil, fmt.Errorf("not authenticated. Please run 'echomind login' first")
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

func (c *Cli) PrintUsage() {
	c.io.Println("EchoMind Client")
	c.io.Println()
	c.io.Println("Usage:")
	c.io.Println("  echomind [OPTIONS] COMMAND [ARGS]")
	c.io.Println()
	c.io.Println("Options:")
	c.io.Println("  -config PATH            JSON config file")
	c.io.Println("  -server URL             Server URL (default: http://localhost:8080)")
	c.io.Println("  -db PATH                Path to local database (default: echomind-client.db)")
	c.io.Println("  -log-level LEVEL        debug, info, warn, error")
	c.io.Println("  -max-attempts N         Attempts before an operation is abandoned (0 = unbounded)")
	c.io.Println("  -version                Show version information")
	c.io.Println()
	c.io.Println("Commands:")
	c.io.Println("  register                Create an account")
	c.io.Println("  login                   Sign in")
	c.io.Println("  logout                  Sign out and clear local data")
	c.io.Println("  status                  Show session, network and queue state")
	c.io.Println("  journal add|list|delete Manage journal entries")
	c.io.Println("  chat add|list           Manage chat messages")
	c.io.Println("  prompt list             Show daily prompts")
	c.io.Println("  sync                    Send queued changes and pull remote state")
	c.io.Println("  pending [retry]         Show queued and abandoned operations")
	c.io.Println("  watch                   Follow connectivity and sync on reconnect")
	c.io.Println("  offline | online        Force offline mode or leave it")
}
