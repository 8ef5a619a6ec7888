package cli

import "context"

func (c *Cli) runLogout(ctx context.Context) error {
	pending, err := c.sync.PendingCount(ctx)
	if err == nil && pending > 0 {
		c.io.Printf("⚠️  %d unsent change(s) will be discarded.\n", pending)
	}

	if err := c.auth.Logout(ctx); err != nil {
		return err
	}

	c.io.Println("✓ Logged out, local data removed")
	return nil
}
