package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/iudanet/echomind/internal/models"
)

func (c *Cli) runJournal(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing subcommand. Usage: echomind journal <add|list|delete>")
	}
	if _, err := c.requireSession(ctx); err != nil {
		return err
	}

	switch args[0] {
	case "add":
		return c.runJournalAdd(ctx, args[1:])
	case "list":
		return c.runJournalList(ctx)
	case "delete":
		return c.runDelete(ctx, models.CollectionJournals, args[1:])
	default:
		return fmt.Errorf("unknown journal subcommand: %s", args[0])
	}
}

func (c *Cli) runJournalAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("journal add", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	title := fs.String("title", "", "entry title")
	mood := fs.String("mood", "", "mood, for example calm or anxious")
	tags := fs.String("tags", "", "comma separated tags")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}

	content := strings.Join(fs.Args(), " ")
	if content == "" {
		var err error
		content, err = c.io.ReadInput("Entry: ")
		if err != nil {
			return fmt.Errorf("failed to read entry: %w", err)
		}
	}

	entry := &models.JournalEntry{
		Title:   *title,
		Content: content,
		Mood:    *mood,
		Tags:    splitTags(*tags),
	}
	record, err := c.data.AddJournal(ctx, entry)
	if err != nil {
		return err
	}

	c.io.Printf("✓ Journal entry saved (%s)\n", record.ID)
	c.printWriteState(record)
	return nil
}

func (c *Cli) runJournalList(ctx context.Context) error {
	records, err := c.data.List(ctx, models.CollectionJournals)
	if err != nil {
		return err
	}

	c.io.Println("=== Journal ===")
	c.io.Println()
	if len(records) == 0 {
		c.io.Println("No entries yet.")
		return nil
	}

	for _, r := range records {
		var entry models.JournalEntry
		if err := r.Decode(&entry); err != nil {
			c.logger.Warn("Skipping undecodable journal entry", "id", r.ID, "error", err)
			continue
		}

		c.io.Printf("%s  %s  %s%s\n",
			entry.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.ID,
			fallback(entry.Title, "(untitled)"),
			statusMarker(r))
		if entry.Mood != "" {
			c.io.Printf("    mood: %s\n", entry.Mood)
		}
		if len(entry.Tags) > 0 {
			c.io.Printf("    tags: %s\n", strings.Join(entry.Tags, ", "))
		}
		c.io.Printf("    %s\n", truncate(entry.Content, 120))
	}

	return nil
}

func (c *Cli) runDelete(ctx context.Context, collection string, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing id")
	}

	if err := c.data.Delete(ctx, collection, args[0]); err != nil {
		return err
	}

	c.io.Printf("✓ Deleted %s\n", args[0])
	if !c.network.Online() {
		c.io.Println("Offline: deletion will be sent on next sync.")
	}
	return nil
}
