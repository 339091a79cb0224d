package insight

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mkovac/journal-insights/internal/models"
)

func TestFormatEntryLines(t *testing.T) {
	if got := formatEntryLines(nil); !strings.Contains(got, "No journal entries") {
		t.Errorf("empty window: %q", got)
	}

	entries := []models.JournalEntry{
		{
			ID:   "e1",
			Date: time.Date(2026, 3, 11, 9, 30, 0, 0, time.UTC),
			Text: "Slept well, long walk before work.",
			Mood: models.MoodGood,
		},
	}
	got := formatEntryLines(entries)
	if !strings.Contains(got, "2026-03-11 Wed 09:30") {
		t.Errorf("missing formatted date: %q", got)
	}
	if !strings.Contains(got, "[good]") {
		t.Errorf("missing mood tag: %q", got)
	}
}

func TestFormatEntryLinesTruncatesLongText(t *testing.T) {
	long := strings.Repeat("x", 1000)
	entries := []models.JournalEntry{
		{ID: "e1", Date: time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC), Text: long, Mood: models.MoodNeutral},
	}
	got := formatEntryLines(entries)
	if strings.Contains(got, strings.Repeat("x", maxEntryChars+1)) {
		t.Error("entry text was not truncated")
	}
	if !strings.Contains(got, "...") {
		t.Error("truncated text should carry an ellipsis")
	}
}

func TestFormatDependencyContextStableOrder(t *testing.T) {
	deps := map[string]json.RawMessage{
		"theme-summary": json.RawMessage(`{"summary":"themes"}`),
		"mood-trend":    nil,
	}

	first := formatDependencyContext(deps)
	for i := 0; i < 20; i++ {
		if got := formatDependencyContext(deps); got != first {
			t.Fatal("dependency context is not deterministic")
		}
	}

	if !strings.Contains(first, "mood-trend: unavailable") {
		t.Errorf("absent dependency not marked unavailable:\n%s", first)
	}
	if !strings.Contains(first, `theme-summary: {"summary":"themes"}`) {
		t.Errorf("present dependency payload missing:\n%s", first)
	}
	if strings.Index(first, "mood-trend") > strings.Index(first, "theme-summary") {
		t.Error("dependencies must be rendered in sorted order")
	}
}

func TestFormatDependencyContextEmpty(t *testing.T) {
	if got := formatDependencyContext(nil); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestUserMessageDeterministic(t *testing.T) {
	gc := &GenerationContext{
		Now: time.Date(2026, 3, 11, 14, 0, 0, 0, time.UTC),
		Entries: []models.JournalEntry{
			{ID: "e1", Date: time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC), Text: "a", Mood: models.MoodGood},
			{ID: "e2", Date: time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC), Text: "b", Mood: models.MoodLow},
		},
		Dependencies: map[string]json.RawMessage{
			"mood-trend":    json.RawMessage(`{"x":1}`),
			"theme-summary": nil,
		},
	}

	strategies := []Strategy{
		moodTrendStrategy{},
		themeSummaryStrategy{},
		narrativeRecapStrategy{},
		recommendationsStrategy{},
	}
	for _, s := range strategies {
		first := s.UserMessage(gc)
		for i := 0; i < 10; i++ {
			if got := s.UserMessage(gc); got != first {
				t.Fatalf("%T produces nondeterministic prompts", s)
			}
		}
	}
}

func TestWeeklyReviewUserMessageIncludesPeriod(t *testing.T) {
	gc := &GenerationContext{
		Now: time.Date(2026, 3, 11, 14, 0, 0, 0, time.UTC),
		Entries: []models.JournalEntry{
			{ID: "e1", Date: time.Date(2026, 3, 4, 8, 0, 0, 0, time.UTC), Text: "a", Mood: models.MoodGood},
		},
		Covered: &models.DateRange{
			Start: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
		},
	}

	got := weeklyReviewStrategy{}.UserMessage(gc)
	if !strings.Contains(got, "PERIOD COVERED: 2026-03-01 through 2026-03-07") {
		t.Errorf("covered period missing or wrong:\n%s", got)
	}
}

func TestDecodePayloadValidation(t *testing.T) {
	tests := []struct {
		name     string
		strategy Strategy
		raw      string
		wantErr  bool
	}{
		{"mood trend valid", moodTrendStrategy{}, `{"summary":"ok","direction":"mixed","dominant_moods":["low"]}`, false},
		{"mood trend bad direction", moodTrendStrategy{}, `{"summary":"ok","direction":"up"}`, true},
		{"mood trend missing summary", moodTrendStrategy{}, `{"direction":"steady"}`, true},
		{"mood trend not json", moodTrendStrategy{}, `INSIGHT: something`, true},
		{"themes valid", themeSummaryStrategy{}, `{"themes":[{"name":"sleep","evidence":"three entries"}],"summary":"ok"}`, false},
		{"themes empty", themeSummaryStrategy{}, `{"themes":[],"summary":"ok"}`, true},
		{"theme without name", themeSummaryStrategy{}, `{"themes":[{"evidence":"x"}],"summary":"ok"}`, true},
		{"recap valid", narrativeRecapStrategy{}, `{"narrative":"a week","highlights":[]}`, false},
		{"recap missing narrative", narrativeRecapStrategy{}, `{"highlights":["x"]}`, true},
		{"review valid", weeklyReviewStrategy{}, `{"overview":"ok","patterns":["p"],"shifts":"none","looking_ahead":"x"}`, false},
		{"review no patterns", weeklyReviewStrategy{}, `{"overview":"ok","patterns":[]}`, true},
		{"recommendations valid", recommendationsStrategy{}, `{"recommendations":[{"title":"walk","rationale":"it helped"}]}`, false},
		{"recommendations empty", recommendationsStrategy{}, `{"recommendations":[]}`, true},
		{"recommendation without title", recommendationsStrategy{}, `{"recommendations":[{"rationale":"x"}]}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.strategy.DecodePayload([]byte(tt.raw))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("DecodePayload(%q) expected error, got %s", tt.raw, out)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodePayload(%q) error: %v", tt.raw, err)
			}
			if !json.Valid(out) {
				t.Errorf("canonical payload is not valid JSON: %s", out)
			}
		})
	}
}
