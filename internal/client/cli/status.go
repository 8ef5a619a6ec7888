package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/echomind/internal/client/storage"
)

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Status ===")
	c.io.Println()

	session, err := c.auth.Session(ctx)
	switch {
	case errors.Is(err, storage.ErrSessionNotFound):
		c.io.Println("Session: Not authenticated")
		c.io.Println("Run 'echomind login' to authenticate.")
	case err != nil:
		return fmt.Errorf("failed to get session: %w", err)
	default:
		c.io.Printf("Session: %s (%s)\n", session.Email, session.UserID)
		expiresAt := time.Unix(session.ExpiresAt, 0)
		if remaining := time.Until(expiresAt); remaining > 0 {
			c.io.Printf("Token expires in: %s\n", remaining.Round(time.Second))
		} else {
			c.io.Println("⚠️  Token has expired. Please login again.")
		}
	}

	forced, err := c.store.GetForcedOffline(ctx)
	if err != nil {
		return fmt.Errorf("failed to get offline mode: %w", err)
	}
	switch {
	case forced:
		c.io.Println("Network: offline (forced, run 'echomind online' to leave)")
	case c.network.Online():
		c.io.Println("Network: online")
	default:
		c.io.Println("Network: offline (server unreachable)")
	}

	lastSync, err := c.store.GetLastSyncTimestamp(ctx)
	if err != nil {
		return fmt.Errorf("failed to get last sync timestamp: %w", err)
	}
	if lastSync == 0 {
		c.io.Println("Last sync: never")
	} else {
		c.io.Printf("Last sync: %s\n", time.Unix(lastSync, 0).Format(time.RFC3339))
	}

	pending, err := c.sync.PendingCount(ctx)
	if err != nil {
		return err
	}
	dead, err := c.sync.DeadLetters(ctx)
	if err != nil {
		return err
	}

	c.io.Println()
	if pending > 0 {
		c.io.Printf("⚠️  Pending sync: %d operation(s) waiting to be sent\n", pending)
	} else {
		c.io.Println("✓ No pending operations")
	}
	if len(dead) > 0 {
		c.io.Printf("⚠️  Abandoned: %d operation(s), run 'echomind pending retry'\n", len(dead))
	}

	return nil
}
