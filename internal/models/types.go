package models

import (
	"encoding/json"
	"time"
)

// Mood is the categorical mood tag attached to a journal entry
type Mood string

const (
	MoodGreat   Mood = "great"
	MoodGood    Mood = "good"
	MoodNeutral Mood = "neutral"
	MoodLow     Mood = "low"
	MoodAwful   Mood = "awful"
)

// ValidMood reports whether m is one of the known mood tags
func ValidMood(m Mood) bool {
	switch m {
	case MoodGreat, MoodGood, MoodNeutral, MoodLow, MoodAwful:
		return true
	}
	return false
}

// JournalEntry is one immutable journal entry. Entries are created by the
// capture endpoint and are read-only everywhere else.
type JournalEntry struct {
	ID   string    `json:"id"`
	Date time.Time `json:"date"`
	Text string    `json:"text"`
	Mood Mood      `json:"mood"`
}

// DateRange is a half-open [Start, End) instant pair
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the range
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// InsightRecord is the single latest generated artifact for one insight
// type. The store keeps only the most recent record per type; a successful
// generation overwrites the previous one.
type InsightRecord struct {
	Type         string          `json:"type"`
	GeneratedAt  time.Time       `json:"generated_at"`
	Payload      json.RawMessage `json:"payload"`
	CoveredRange *DateRange      `json:"covered_range,omitempty"`
}

// MoodTrendPayload is the decoded result schema for the mood-trend type
type MoodTrendPayload struct {
	Summary       string   `json:"summary"`
	Direction     string   `json:"direction"` // improving|declining|steady|mixed
	DominantMoods []string `json:"dominant_moods"`
}

// Theme is one recurring theme with its supporting evidence
type Theme struct {
	Name     string `json:"name"`
	Evidence string `json:"evidence"`
}

// ThemeSummaryPayload is the decoded result schema for the theme-summary type
type ThemeSummaryPayload struct {
	Themes  []Theme `json:"themes"`
	Summary string  `json:"summary"`
}

// NarrativeRecapPayload is the decoded result schema for the narrative-recap type
type NarrativeRecapPayload struct {
	Narrative  string   `json:"narrative"`
	Highlights []string `json:"highlights"`
}

// WeeklyReviewPayload is the decoded result schema for the weekly-review type
type WeeklyReviewPayload struct {
	Overview     string   `json:"overview"`
	Patterns     []string `json:"patterns"`
	Shifts       string   `json:"shifts"`
	LookingAhead string   `json:"looking_ahead"`
}

// Recommendation is one actionable suggestion with its rationale
type Recommendation struct {
	Title     string `json:"title"`
	Rationale string `json:"rationale"`
}

// RecommendationsPayload is the decoded result schema for the recommendations type
type RecommendationsPayload struct {
	Recommendations []Recommendation `json:"recommendations"`
}

// EntryRequest is the body of the capture endpoint
type EntryRequest struct {
	Text string `json:"text"`
	Mood string `json:"mood"`
	Date string `json:"date,omitempty"` // RFC3339, defaults to server time
}

// EntryResponse is returned after a successful capture
type EntryResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// EntriesResponse is returned by the entry list endpoint
type EntriesResponse struct {
	Entries []JournalEntry `json:"entries"`
}

// InsightResponse wraps a persisted insight record for the read endpoint
type InsightResponse struct {
	Type         string          `json:"type"`
	GeneratedAt  time.Time       `json:"generated_at"`
	Payload      json.RawMessage `json:"payload"`
	CoveredRange *DateRange      `json:"covered_range,omitempty"`
}

// RefreshResponse reports the outcome of a triggered run
type RefreshResponse struct {
	Type    string `json:"type"`
	Outcome string `json:"outcome"` // "generated", "skipped", "failed"
	Reason  string `json:"reason,omitempty"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
	Version string `json:"version"`
}
