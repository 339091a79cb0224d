package insight

import (
	"time"

	"github.com/mkovac/journal-insights/internal/models"
)

// Decision is the outcome of the staleness evaluation for one run
type Decision int

const (
	Proceed Decision = iota
	SkipTooSoon
	SkipNoNewData
	SkipInsufficientData
	SkipOutsideActivityWindow
	// SkipAlreadyRunning is reported by the orchestrator when a run for
	// the same identifier is in flight; ShouldGenerate never returns it.
	SkipAlreadyRunning
)

func (d Decision) String() string {
	switch d {
	case Proceed:
		return "proceed"
	case SkipTooSoon:
		return "too_soon"
	case SkipNoNewData:
		return "no_new_data"
	case SkipInsufficientData:
		return "insufficient_data"
	case SkipOutsideActivityWindow:
		return "outside_activity_window"
	case SkipAlreadyRunning:
		return "already_running"
	}
	return "unknown"
}

// ShouldGenerate decides whether a regeneration is due. Rules apply in
// order; force bypasses the interval, activity-window and no-new-data
// rules but never the minimum entry count, which protects against
// generating from an empty context.
//
// Interval comparisons count whole elapsed hours (truncated), matching
// the coarse granularity of the configured intervals. An interval of
// 24h is satisfied once 24 full hours have passed, never earlier.
func ShouldGenerate(now time.Time, last *models.InsightRecord, pol Policy, candidates []models.JournalEntry, force bool) Decision {
	if !force {
		if last != nil && wholeHours(now.Sub(last.GeneratedAt)) < wholeHours(pol.Interval) {
			return SkipTooSoon
		}
		if pol.Activity != nil && !pol.Activity.Contains(now) {
			return SkipOutsideActivityWindow
		}
	}

	if len(candidates) < pol.MinEntries {
		return SkipInsufficientData
	}

	if !force && last != nil && !anyNewerThan(candidates, last.GeneratedAt) {
		return SkipNoNewData
	}

	return Proceed
}

func wholeHours(d time.Duration) int {
	if d < 0 {
		return 0
	}
	return int(d / time.Hour)
}

func anyNewerThan(entries []models.JournalEntry, ts time.Time) bool {
	for _, e := range entries {
		if e.Date.After(ts) {
			return true
		}
	}
	return false
}
