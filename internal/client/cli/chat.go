package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/iudanet/echomind/internal/models"
)

const defaultConversation = "default"

func (c *Cli) runChat(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing subcommand. Usage: echomind chat <add|list>")
	}
	if _, err := c.requireSession(ctx); err != nil {
		return err
	}

	fs := flag.NewFlagSet("chat "+args[0], flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	conversation := fs.String("conversation", defaultConversation, "conversation id")
	role := fs.String("role", models.ChatRoleUser, "message role: user or assistant")
	if err := fs.Parse(args[1:]); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}

	switch args[0] {
	case "add":
		content := strings.Join(fs.Args(), " ")
		if content == "" {
			var err error
			content, err = c.io.ReadInput("Message: ")
			if err != nil {
				return fmt.Errorf("failed to read message: %w", err)
			}
		}
		record, err := c.data.AddChatMessage(ctx, &models.ChatMessage{
			ConversationID: *conversation,
			Role:           *role,
			Content:        content,
		})
		if err != nil {
			return err
		}
		c.io.Printf("✓ Message saved (%s)\n", record.ID)
		c.printWriteState(record)
		return nil
	case "list":
		msgs, err := c.data.ListChatMessages(ctx, *conversation)
		if err != nil {
			return err
		}
		c.io.Printf("=== Conversation %s ===\n", *conversation)
		if len(msgs) == 0 {
			c.io.Println("No messages yet.")
		}
		for _, m := range msgs {
			c.io.Printf("[%s] %s: %s\n", m.CreatedAt.Local().Format("15:04"), m.Role, m.Content)
		}
		return nil
	default:
		return fmt.Errorf("unknown chat subcommand: %s", args[0])
	}
}
