// Package buildlog keeps a journal of build runs in a local sqlite
// database. The journal is purely observational: the pipeline writes it
// and never reads it back, so journal trouble must not fail a build.
package buildlog

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	version     TEXT NOT NULL,
	started_at  TEXT NOT NULL,
	finished_at TEXT,
	status      TEXT NOT NULL,
	units       INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS artifacts (
	run_id TEXT NOT NULL REFERENCES runs(id),
	path   TEXT NOT NULL,
	bytes  INTEGER NOT NULL
);`

// Journal records build runs and the artifacts they produced.
type Journal struct {
	db *sql.DB
}

func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("buildlog: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("buildlog: schema: %w", err)
	}
	return &Journal{db: db}, nil
}

func (j *Journal) Close() error { return j.db.Close() }

// BeginRun records a run as started.
func (j *Journal) BeginRun(id, version string) error {
	_, err := j.db.Exec(
		`INSERT INTO runs (id, version, started_at, status) VALUES (?, ?, ?, 'running')`,
		id, version, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("buildlog: begin run: %w", err)
	}
	return nil
}

// FinishRun records the final status ("ok" or "failed") and the number of
// units the run processed.
func (j *Journal) FinishRun(id, status string, units int) error {
	_, err := j.db.Exec(
		`UPDATE runs SET finished_at = ?, status = ?, units = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), status, units, id)
	if err != nil {
		return fmt.Errorf("buildlog: finish run: %w", err)
	}
	return nil
}

// RecordArtifact records one written artifact and its size.
func (j *Journal) RecordArtifact(runID, path string, size int64) error {
	_, err := j.db.Exec(
		`INSERT INTO artifacts (run_id, path, bytes) VALUES (?, ?, ?)`,
		runID, path, size)
	if err != nil {
		return fmt.Errorf("buildlog: record artifact: %w", err)
	}
	return nil
}

// RunStatus returns the recorded status of a run.
func (j *Journal) RunStatus(id string) (string, error) {
	var status string
	err := j.db.QueryRow(`SELECT status FROM runs WHERE id = ?`, id).Scan(&status)
	if err != nil {
		return "", fmt.Errorf("buildlog: run %s: %w", id, err)
	}
	return status, nil
}

// Artifacts returns the artifact paths recorded for a run, in insertion
// order.
func (j *Journal) Artifacts(runID string) ([]string, error) {
	rows, err := j.db.Query(`SELECT path FROM artifacts WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("buildlog: artifacts for %s: %w", runID, err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("buildlog: artifacts for %s: %w", runID, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
