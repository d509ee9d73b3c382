// Package store persists finished-call reports in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/AndrewKaranu/ScamShield/internal/call"
	"github.com/AndrewKaranu/ScamShield/internal/outcome"
)

const schema = `
CREATE TABLE IF NOT EXISTS call_reports (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id       TEXT NOT NULL,
	scenario_id      TEXT NOT NULL DEFAULT '',
	outcome          TEXT NOT NULL,
	duration_seconds INTEGER NOT NULL,
	transcript       TEXT NOT NULL,
	tool_log         TEXT NOT NULL,
	ended_at         TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_call_reports_ended_at ON call_reports (ended_at);
`

// Store is a SQLite-backed report archive.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed creates) the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Save inserts one finished-call report.
func (s *Store) Save(ctx context.Context, r call.Report) error {
	transcript, err := json.Marshal(r.Transcript)
	if err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}
	toolLog, err := json.Marshal(r.ToolLog)
	if err != nil {
		return fmt.Errorf("encode tool log: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO call_reports (session_id, scenario_id, outcome, duration_seconds, transcript, tool_log, ended_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.SessionID, r.ScenarioID, string(r.Outcome), r.DurationSeconds, string(transcript), string(toolLog), r.EndedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// List returns the most recent reports, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]call.Report, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, scenario_id, outcome, duration_seconds, transcript, tool_log, ended_at
		 FROM call_reports ORDER BY ended_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	var out []call.Report
	for rows.Next() {
		var r call.Report
		var result, transcript, toolLog string
		if err := rows.Scan(&r.SessionID, &r.ScenarioID, &result, &r.DurationSeconds, &transcript, &toolLog, &r.EndedAt); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		r.Outcome = outcome.Outcome(result)
		if err := json.Unmarshal([]byte(transcript), &r.Transcript); err != nil {
			return nil, fmt.Errorf("decode transcript: %w", err)
		}
		if err := json.Unmarshal([]byte(toolLog), &r.ToolLog); err != nil {
			return nil, fmt.Errorf("decode tool log: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
