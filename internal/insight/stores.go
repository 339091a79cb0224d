package insight

import (
	"context"
	"time"

	"github.com/mkovac/journal-insights/internal/models"
)

// EntryStore is the read-only source of journal entries. Implementations
// must return entries sorted by date, most recent first.
type EntryStore interface {
	ListAll(ctx context.Context) ([]models.JournalEntry, error)
	ListInRange(ctx context.Context, start, end time.Time) ([]models.JournalEntry, error)
}

// InsightStore holds the single latest record per insight type.
type InsightStore interface {
	// Latest returns the stored record for the type, or nil if none exists.
	Latest(ctx context.Context, insightType string) (*models.InsightRecord, error)
	// Save replaces the record for the type in one atomic write.
	Save(ctx context.Context, record models.InsightRecord) error
	// TouchTimestamp bumps generated_at without altering the payload.
	TouchTimestamp(ctx context.Context, insightType string, ts time.Time) error
}

// Backend is the generative text service. A call either returns the raw
// structured output or fails with a *BackendError.
type Backend interface {
	GenerateStructured(ctx context.Context, systemPrompt, userMessage string) ([]byte, error)
}
