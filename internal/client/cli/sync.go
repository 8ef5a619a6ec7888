package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/echomind/internal/client/network"
	clientsync "github.com/iudanet/echomind/internal/client/sync"
)

func (c *Cli) runSync(ctx context.Context) error {
	if _, err := c.requireSession(ctx); err != nil {
		return err
	}
	if err := c.checkNotForcedOffline(ctx); err != nil {
		return err
	}

	c.io.Println("=== Synchronization ===")
	c.io.Println()

	var task *network.SyncTask
	if c.network.Online() {
		task = c.network.TriggerSync(ctx)
	} else {
		// переход в online сам запускает синхронизацию
		task = c.reconnect(ctx)
		if task == nil {
			return fmt.Errorf("server is unreachable, changes stay queued")
		}
	}

	result, err := task.Wait(ctx)
	if err != nil {
		return fmt.Errorf("synchronization failed: %w", err)
	}

	c.printSyncResult(result)
	return nil
}

// reconnect проверяет сервер и переводит монитор в online.
// Возвращает задачу синхронизации или nil, если сервер недоступен.
func (c *Cli) reconnect(ctx context.Context) *network.SyncTask {
	if c.prober == nil {
		return nil
	}
	if err := c.prober.Probe(ctx); err != nil {
		c.logger.Debug("Server unreachable", "error", err)
		return nil
	}
	if task := c.network.SetOnline(true); task != nil {
		return task
	}
	return c.network.TriggerSync(ctx)
}

func (c *Cli) printSyncResult(result *clientsync.SyncResult) {
	if result == nil {
		return
	}
	if d := result.Drain; d != nil {
		c.io.Printf("Sent to server:     %d operation(s)\n", d.Succeeded)
		if d.Failed > 0 {
			c.io.Printf("Still queued:       %d operation(s)\n", d.Failed)
		}
		if d.DeadLettered > 0 {
			c.io.Printf("Abandoned:          %d operation(s)\n", d.DeadLettered)
		}
	}
	if p := result.Pull; p != nil {
		c.io.Printf("Pulled from server: %d record(s)\n", p.Pulled)
		if p.Failed > 0 {
			c.io.Printf("Failed collections: %d\n", p.Failed)
		}
	}
	c.io.Println()
	c.io.Println("✓ Synchronization completed")
}

func (c *Cli) runPending(ctx context.Context, args []string) error {
	if len(args) > 0 {
		if args[0] != "retry" {
			return fmt.Errorf("usage: echomind pending [retry]")
		}
		n, err := c.sync.RequeueDeadLetters(ctx)
		if err != nil {
			return err
		}
		c.io.Printf("✓ %d abandoned operation(s) queued again\n", n)
		return nil
	}

	ops, err := c.store.ListPending(ctx)
	if err != nil {
		return fmt.Errorf("failed to list pending operations: %w", err)
	}
	dead, err := c.sync.DeadLetters(ctx)
	if err != nil {
		return err
	}

	c.io.Printf("=== Pending operations (%d) ===\n", len(ops))
	for _, op := range ops {
		c.io.Printf("#%d  %-6s %s/%s", op.Seq, op.Kind, op.Collection, op.RecordID)
		if op.Attempts > 0 {
			c.io.Printf("  attempts=%d last_error=%q", op.Attempts, op.LastError)
		}
		c.io.Println()
	}

	if len(dead) > 0 {
		c.io.Println()
		c.io.Printf("=== Abandoned operations (%d) ===\n", len(dead))
		for _, op := range dead {
			c.io.Printf("%-6s %s/%s  attempts=%d last_error=%q\n", op.Kind, op.Collection, op.RecordID, op.Attempts, op.LastError)
		}
	}
	return nil
}

func (c *Cli) runWatch(ctx context.Context) error {
	if _, err := c.requireSession(ctx); err != nil {
		return err
	}
	if err := c.checkNotForcedOffline(ctx); err != nil {
		return err
	}

	unsubscribe := c.network.Subscribe(network.ObserverFunc(func(online bool) {
		state := "offline"
		if online {
			state = "online, syncing"
		}
		c.io.Printf("[%s] network %s\n", time.Now().Format("15:04:05"), state)
	}))
	defer unsubscribe()

	c.io.Println("Watching connectivity. Press Ctrl+C to stop.")
	return c.network.Run(ctx)
}

func (c *Cli) checkNotForcedOffline(ctx context.Context) error {
	forced, err := c.store.GetForcedOffline(ctx)
	if err != nil {
		return fmt.Errorf("failed to get offline mode: %w", err)
	}
	if forced {
		return fmt.Errorf("offline mode is on. Run 'echomind online' first")
	}
	return nil
}
