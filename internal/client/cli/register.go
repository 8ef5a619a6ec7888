package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runRegister(ctx context.Context, args []string) error {
	c.io.Println("=== Registration ===")
	c.io.Println()

	email, password, err := c.readCredentials(args, true)
	if err != nil {
		return err
	}

	session, err := c.auth.Register(ctx, email, password)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Registration successful!")
	c.io.Printf("Email:   %s\n", session.Email)
	c.io.Printf("User ID: %s\n", session.UserID)

	return nil
}

// readCredentials берет email из аргументов или спрашивает, пароль всегда спрашивает
func (c *Cli) readCredentials(args []string, confirm bool) (string, string, error) {
	var email string
	if len(args) > 0 {
		email = args[0]
	} else {
		var err error
		email, err = c.io.ReadInput("Email: ")
		if err != nil {
			return "", "", fmt.Errorf("failed to read email: %w", err)
		}
	}

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return "", "", fmt.Errorf("failed to read password: %w", err)
	}

	if confirm {
		again, err := c.io.ReadPassword("Confirm password: ")
		if err != nil {
			return "", "", fmt.Errorf("failed to read password: %w", err)
		}
		if again != password {
			return "", "", fmt.Errorf("passwords do not match")
		}
	}

	return email, password, nil
}
