package cli

import (
	"context"
	"time"
)

func (c *Cli) runLogin(ctx context.Context, args []string) error {
	c.io.Println("=== Login ===")
	c.io.Println()

	email, password, err := c.readCredentials(args, false)
	if err != nil {
		return err
	}

	c.io.Println("Authenticating...")

	session, err := c.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Login successful!")
	c.io.Printf("Email: %s\n", session.Email)
	c.io.Printf("Access token expires: %s\n", time.Unix(session.ExpiresAt, 0).Format(time.RFC3339))
	c.io.Println()
	c.io.Println("Run 'echomind sync' to download your data.")

	return nil
}
