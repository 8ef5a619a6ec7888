package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runPrompt(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] != "list" {
		return fmt.Errorf("usage: echomind prompt list")
	}
	if _, err := c.requireSession(ctx); err != nil {
		return err
	}

	prompts, err := c.data.ListDailyPrompts(ctx)
	if err != nil {
		return err
	}

	c.io.Println("=== Daily prompts ===")
	if len(prompts) == 0 {
		c.io.Println("No prompts cached. Run 'echomind sync' while online.")
		return nil
	}
	for _, p := range prompts {
		mark := " "
		if p.Answered {
			mark = "✓"
		}
		c.io.Printf("[%s] %s  %s\n", mark, p.Day, p.Question)
	}
	return nil
}
