package insight

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mkovac/journal-insights/internal/models"
)

// GenerationContext is the material assembled for one run: the entry
// window, resolved dependency payloads (nil when a dependency has no
// stored record) and the covered range for fixed-period types. It is
// owned by exactly one in-flight run.
type GenerationContext struct {
	Now          time.Time
	Entries      []models.JournalEntry
	Dependencies map[string]json.RawMessage
	Covered      *models.DateRange
}

// Strategy is the per-type behavior the orchestrator is parameterized
// with: prompt construction and result decoding. Implementations must be
// stateless; prompt output is deterministic given the same context.
type Strategy interface {
	SystemPrompt() string
	UserMessage(gc *GenerationContext) string
	// DecodePayload validates the raw backend output against the type's
	// schema and returns the canonical serialized payload.
	DecodePayload(raw []byte) ([]byte, error)
}

const maxEntryChars = 200

// formatEntryLines renders the entry window as one line per entry,
// newest first. Texts are truncated so unbounded entries cannot blow up
// the prompt.
func formatEntryLines(entries []models.JournalEntry) string {
	if len(entries) == 0 {
		return "No journal entries in this window."
	}
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "- %s [%s] %s\n", e.Date.Format("2006-01-02 Mon 15:04"), e.Mood, truncate(e.Text, maxEntryChars))
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatDependencyContext renders resolved dependency payloads in a
// stable order. Missing dependencies are named as unavailable rather
// than omitted, so the backend knows what context it is missing.
func formatDependencyContext(deps map[string]json.RawMessage) string {
	if len(deps) == 0 {
		return ""
	}
	ids := make([]string, 0, len(deps))
	for id := range deps {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder
	b.WriteString("CONTEXT FROM PRIOR ANALYSES:\n")
	for _, id := range ids {
		if payload := deps[id]; payload != nil {
			fmt.Fprintf(&b, "%s: %s\n", id, string(payload))
		} else {
			fmt.Fprintf(&b, "%s: unavailable\n", id)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatCoveredRange(r *models.DateRange) string {
	if r == nil {
		return ""
	}
	// End is exclusive; show the last covered day.
	return fmt.Sprintf("PERIOD COVERED: %s through %s",
		r.Start.Format("2006-01-02"), r.End.AddDate(0, 0, -1).Format("2006-01-02"))
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
