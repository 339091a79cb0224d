package insight

import (
	"time"

	"github.com/mkovac/journal-insights/internal/models"
)

// SelectWindow computes the entry slice used as generation context.
// entries must be sorted by date, most recent first; the returned slice
// preserves that order. The second return is the covered range for
// fixed-period strategies, nil otherwise. The selector is pure: same
// inputs, same output.
func SelectWindow(now time.Time, entries []models.JournalEntry, spec WindowSpec) ([]models.JournalEntry, *models.DateRange) {
	switch spec.Kind {
	case WindowRecencyCount:
		return headEntries(entries, spec.Count), nil

	case WindowRecencyDuration:
		cutoff := now.Add(-spec.Span)
		return entriesSince(entries, cutoff), nil

	case WindowRollingRank:
		cutoff := now.Add(-spec.Span)
		recent := entriesSince(entries, cutoff)
		if len(recent) >= spec.Cap {
			return headEntries(recent, spec.Cap), nil
		}
		if len(recent) >= spec.Floor {
			return recent, nil
		}
		// Not enough inside the span: reach further back up to the floor.
		return headEntries(entries, spec.Floor), nil

	case WindowFixedPriorWeek:
		r := priorWeekRange(now)
		var out []models.JournalEntry
		for _, e := range entries {
			if r.Contains(e.Date) {
				out = append(out, e)
			}
		}
		return out, &r
	}
	return nil, nil
}

func headEntries(entries []models.JournalEntry, n int) []models.JournalEntry {
	if n < 0 {
		n = 0
	}
	if len(entries) > n {
		entries = entries[:n]
	}
	out := make([]models.JournalEntry, len(entries))
	copy(out, entries)
	return out
}

func entriesSince(entries []models.JournalEntry, cutoff time.Time) []models.JournalEntry {
	var out []models.JournalEntry
	for _, e := range entries {
		if e.Date.Before(cutoff) {
			break // sorted descending, nothing newer follows
		}
		out = append(out, e)
	}
	return out
}

// priorWeekRange returns the [Sunday 00:00, next Sunday 00:00) range of
// the calendar week immediately preceding the one containing now.
func priorWeekRange(now time.Time) models.DateRange {
	y, m, d := now.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	currentWeekStart := midnight.AddDate(0, 0, -int(now.Weekday()))
	return models.DateRange{
		Start: currentWeekStart.AddDate(0, 0, -7),
		End:   currentWeekStart,
	}
}
