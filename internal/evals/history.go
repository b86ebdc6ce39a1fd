// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package evals

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// historySchema holds finished eval runs for the history view.
const historySchema = `
CREATE TABLE IF NOT EXISTS eval_runs (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	model      TEXT NOT NULL,
	status     TEXT NOT NULL,
	score      REAL NOT NULL DEFAULT 0,
	error      TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_eval_runs_updated ON eval_runs(updated_at DESC);
`

// RunRecord is one finished eval run as stored in history.
type RunRecord struct {
	ID        string
	Name      string
	Model     string
	Status    Status
	Score     float64
	Error     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// History persists finished eval runs in a local SQLite database.
type History struct {
	db *sql.DB
}

// OpenHistory opens (or creates) the history database at path. An empty
// path defaults to ~/.prism/evals.db.
func OpenHistory(path string) (*History, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		path = filepath.Join(home, ".prism", "evals.db")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	// SQLite allows one writer; keep a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(historySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return &History{db: db}, nil
}

// Record upserts a job into history. Idempotent by job ID so repeated
// terminal observations converge (last-fetch-wins).
func (h *History) Record(job *Job) error {
	_, err := h.db.Exec(`
		INSERT INTO eval_runs (id, name, model, status, score, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			score = excluded.score,
			error = excluded.error,
			updated_at = excluded.updated_at`,
		job.ID, job.Name, job.Model, job.Status().String(), job.Score(), job.Error(),
		job.CreatedAt.UnixMilli(), job.UpdatedAt().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to record eval run: %w", err)
	}
	return nil
}

// Recent returns the most recently updated runs, newest first.
func (h *History) Recent(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := h.db.Query(`
		SELECT id, name, model, status, score, error, created_at, updated_at
		FROM eval_runs ORDER BY updated_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query eval history: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var r RunRecord
		var status string
		var createdMs, updatedMs int64
		if err := rows.Scan(&r.ID, &r.Name, &r.Model, &status, &r.Score, &r.Error, &createdMs, &updatedMs); err != nil {
			return nil, fmt.Errorf("failed to scan eval run: %w", err)
		}
		r.Status = Status(status)
		r.CreatedAt = time.UnixMilli(createdMs)
		r.UpdatedAt = time.UnixMilli(updatedMs)
		records = append(records, r)
	}
	return records, rows.Err()
}

// Close releases the database handle.
func (h *History) Close() error {
	return h.db.Close()
}
