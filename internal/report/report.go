// Package report persists the structured diagnostic records of an
// analysis run to a SQLite database so external tooling (inspections,
// dashboards) can consume them without re-running the checker.
package report

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mavelang/optbridge/internal/diagnostics"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	unit       TEXT NOT NULL,
	started_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS records (
	id       TEXT PRIMARY KEY,
	run_id   TEXT NOT NULL REFERENCES runs(id),
	code     TEXT NOT NULL,
	severity TEXT NOT NULL,
	file     TEXT NOT NULL,
	line     INTEGER NOT NULL,
	col      INTEGER NOT NULL,
	message  TEXT NOT NULL,
	types    TEXT NOT NULL
);
`

// Sink writes diagnostic records for one or more runs.
type Sink struct {
	db *sql.DB
}

// Open creates or opens a report database and ensures the schema.
func Open(path string) (*Sink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening report %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing report %s: %w", path, err)
	}
	return &Sink{db: db}, nil
}

// Close releases the database handle.
func (s *Sink) Close() error {
	return s.db.Close()
}

// WriteRun stores one analysis run and its diagnostics, returning the run
// id grouping the records.
func (s *Sink) WriteRun(unitFile string, diags []*diagnostics.DiagnosticError) (string, error) {
	runID := uuid.NewString()
	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("report: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO runs (id, unit, started_at) VALUES (?, ?, ?)`,
		runID, unitFile, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return "", fmt.Errorf("report: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO records (id, run_id, code, severity, file, line, col, message, types)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("report: %w", err)
	}
	defer stmt.Close()

	for _, d := range diags {
		rec := d.ToRecord()
		if _, err := stmt.Exec(
			rec.ID, runID, rec.Code, rec.Severity, rec.File,
			rec.Line, rec.Column, rec.Message, strings.Join(rec.Types, " | "),
		); err != nil {
			return "", fmt.Errorf("report: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("report: %w", err)
	}
	return runID, nil
}

// CountRecords returns the number of stored records for a run. Used by
// tooling to sanity-check a completed run.
func (s *Sink) CountRecords(runID string) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM records WHERE run_id = ?`, runID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("report: %w", err)
	}
	return n, nil
}
