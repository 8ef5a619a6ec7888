package cli

import (
	"strings"

	"github.com/iudanet/echomind/internal/models"
)

// statusMarker помечает записи, которые еще не отправлены
func statusMarker(r *models.Record) string {
	if r.IsPending() {
		return "  [pending]"
	}
	return ""
}

func (c *Cli) printWriteState(r *models.Record) {
	if r.IsPending() {
		c.io.Println("Saved locally, will be sent on next sync.")
	}
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

func fallback(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
