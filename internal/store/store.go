package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mkovac/journal-insights/internal/models"
)

const schema = `
-- Journal entries, immutable once written
CREATE TABLE IF NOT EXISTS entries (
    id TEXT PRIMARY KEY,
    created_at TEXT NOT NULL,
    text TEXT NOT NULL,
    mood TEXT NOT NULL
);

-- Latest insight record per type; a new generation replaces the row
CREATE TABLE IF NOT EXISTS insights (
    type TEXT PRIMARY KEY,
    generated_at TEXT NOT NULL,
    payload TEXT NOT NULL,
    covered_start TEXT,
    covered_end TEXT
);

CREATE INDEX IF NOT EXISTS idx_entries_created ON entries(created_at DESC);
`

// Store backs both the entry store and the insight store with one
// SQLite database. Timestamps are stored as RFC3339 UTC text.
type Store struct {
	conn *sql.DB
}

func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.conn.Exec(schema)
	if err != nil {
		return fmt.Errorf("executing migration: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

// AddEntry persists a journal entry. Entries are never updated or
// deleted afterwards.
func (s *Store) AddEntry(ctx context.Context, e models.JournalEntry) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO entries (id, created_at, text, mood)
		VALUES (?, ?, ?, ?)
	`, e.ID, e.Date.UTC().Format(time.RFC3339), e.Text, string(e.Mood))
	return err
}

// ListAll returns every entry sorted by date, most recent first
func (s *Store) ListAll(ctx context.Context) ([]models.JournalEntry, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, created_at, text, mood
		FROM entries
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

// ListInRange returns entries with start <= date < end, most recent first
func (s *Store) ListInRange(ctx context.Context, start, end time.Time) ([]models.JournalEntry, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, created_at, text, mood
		FROM entries
		WHERE created_at >= ? AND created_at < ?
		ORDER BY created_at DESC
	`, start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]models.JournalEntry, error) {
	var entries []models.JournalEntry
	for rows.Next() {
		var e models.JournalEntry
		var createdStr, mood string
		if err := rows.Scan(&e.ID, &createdStr, &e.Text, &mood); err != nil {
			return nil, err
		}
		e.Date, _ = time.Parse(time.RFC3339, createdStr)
		e.Mood = models.Mood(mood)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Latest returns the stored insight record for a type, or nil if none
func (s *Store) Latest(ctx context.Context, insightType string) (*models.InsightRecord, error) {
	var rec models.InsightRecord
	var generatedStr, payload string
	var coveredStart, coveredEnd sql.NullString
	err := s.conn.QueryRowContext(ctx, `
		SELECT type, generated_at, payload, covered_start, covered_end
		FROM insights WHERE type = ?
	`, insightType).Scan(&rec.Type, &generatedStr, &payload, &coveredStart, &coveredEnd)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec.GeneratedAt, _ = time.Parse(time.RFC3339, generatedStr)
	rec.Payload = json.RawMessage(payload)
	if coveredStart.Valid && coveredEnd.Valid {
		start, _ := time.Parse(time.RFC3339, coveredStart.String)
		end, _ := time.Parse(time.RFC3339, coveredEnd.String)
		rec.CoveredRange = &models.DateRange{Start: start, End: end}
	}
	return &rec, nil
}

// Save replaces the record for rec.Type in a single upsert
func (s *Store) Save(ctx context.Context, rec models.InsightRecord) error {
	var coveredStart, coveredEnd interface{}
	if rec.CoveredRange != nil {
		coveredStart = rec.CoveredRange.Start.UTC().Format(time.RFC3339)
		coveredEnd = rec.CoveredRange.End.UTC().Format(time.RFC3339)
	}
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO insights (type, generated_at, payload, covered_start, covered_end)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(type) DO UPDATE SET
			generated_at = excluded.generated_at,
			payload = excluded.payload,
			covered_start = excluded.covered_start,
			covered_end = excluded.covered_end
	`, rec.Type, rec.GeneratedAt.UTC().Format(time.RFC3339), string(rec.Payload), coveredStart, coveredEnd)
	return err
}

// TouchTimestamp bumps generated_at for a type without changing the
// payload. A missing row is a no-op.
func (s *Store) TouchTimestamp(ctx context.Context, insightType string, ts time.Time) error {
	_, err := s.conn.ExecContext(ctx, `
		UPDATE insights SET generated_at = ? WHERE type = ?
	`, ts.UTC().Format(time.RFC3339), insightType)
	return err
}
