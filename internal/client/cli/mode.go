package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runOffline(ctx context.Context) error {
	if err := c.store.SaveForcedOffline(ctx, true); err != nil {
		return fmt.Errorf("failed to save offline mode: %w", err)
	}
	c.network.SetOnline(false)

	c.io.Println("✓ Offline mode on. Changes are kept locally until 'echomind online'.")
	return nil
}

func (c *Cli) runOnline(ctx context.Context) error {
	if err := c.store.SaveForcedOffline(ctx, false); err != nil {
		return fmt.Errorf("failed to save offline mode: %w", err)
	}
	c.io.Println("✓ Offline mode off.")

	if _, err := c.auth.Session(ctx); err != nil {
		// без сессии синхронизировать нечего
		return nil
	}

	task := c.reconnect(ctx)
	if task == nil {
		c.io.Println("Server is unreachable, changes stay queued.")
		return nil
	}

	result, err := task.Wait(ctx)
	if err != nil {
		return fmt.Errorf("synchronization failed: %w", err)
	}
	c.printSyncResult(result)
	return nil
}
