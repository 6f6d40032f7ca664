package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Ingest run lifecycle states.
const (
	IngestStatusRunning   = "running"
	IngestStatusCompleted = "completed"
	IngestStatusFailed    = "failed"
)

// IngestRun records one ingestion pass over a source: what was read, what
// landed, and how it ended. Failed runs keep their error message for later
// inspection.
type IngestRun struct {
	ID           string   `json:"id"`
	Source       string   `json:"source"`
	StartedUnix  float64  `json:"started_unix"`
	EndedUnix    *float64 `json:"ended_unix"`
	RowsRead     int64    `json:"rows_read"`
	RowsInserted int64    `json:"rows_inserted"`
	RowsUpdated  int64    `json:"rows_updated"`
	Status       string   `json:"status"`
	ErrorMessage *string  `json:"error_message,omitempty"`
}

// CreateIngestRun records the start of an ingestion pass. A missing ID gets
// a fresh UUID; a zero start time gets the current time.
func (db *DB) CreateIngestRun(run *IngestRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.StartedUnix == 0 {
		run.StartedUnix = float64(time.Now().UnixNano()) / 1e9
	}
	if run.Status == "" {
		run.Status = IngestStatusRunning
	}

	query := `
		INSERT INTO ingest_runs (
			id, source, started_unix, ended_unix,
			rows_read, rows_inserted, rows_updated, status, error_message
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.DB.Exec(
		query,
		run.ID,
		run.Source,
		run.StartedUnix,
		run.EndedUnix,
		run.RowsRead,
		run.RowsInserted,
		run.RowsUpdated,
		run.Status,
		run.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to create ingest run: %w", err)
	}

	return nil
}

// FinishIngestRun records the outcome of an ingestion pass: final counters,
// terminal status and end time. The run's EndedUnix is filled in if unset.
func (db *DB) FinishIngestRun(run *IngestRun) error {
	if run.EndedUnix == nil {
		now := float64(time.Now().UnixNano()) / 1e9
		run.EndedUnix = &now
	}

	query := `
		UPDATE ingest_runs
		SET ended_unix = ?, rows_read = ?, rows_inserted = ?, rows_updated = ?,
		    status = ?, error_message = ?
		WHERE id = ?
	`

	result, err := db.DB.Exec(
		query,
		run.EndedUnix,
		run.RowsRead,
		run.RowsInserted,
		run.RowsUpdated,
		run.Status,
		run.ErrorMessage,
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish ingest run: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check ingest run update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("ingest run not found: %s", run.ID)
	}

	return nil
}

// GetIngestRun retrieves an ingest run by ID.
func (db *DB) GetIngestRun(id string) (*IngestRun, error) {
	query := `
		SELECT id, source, started_unix, ended_unix,
		       rows_read, rows_inserted, rows_updated, status, error_message
		FROM ingest_runs
		WHERE id = ?
	`

	var run IngestRun
	err := db.DB.QueryRow(query, id).Scan(
		&run.ID,
		&run.Source,
		&run.StartedUnix,
		&run.EndedUnix,
		&run.RowsRead,
		&run.RowsInserted,
		&run.RowsUpdated,
		&run.Status,
		&run.ErrorMessage,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("ingest run not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ingest run: %w", err)
	}

	return &run, nil
}

// ListIngestRuns returns the most recent ingest runs, newest first.
func (db *DB) ListIngestRuns(limit int) ([]IngestRun, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, source, started_unix, ended_unix,
		       rows_read, rows_inserted, rows_updated, status, error_message
		FROM ingest_runs
		ORDER BY started_unix DESC
		LIMIT ?
	`

	rows, err := db.DB.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingest runs: %w", err)
	}
	defer rows.Close()

	var runs []IngestRun
	for rows.Next() {
		var run IngestRun
		if err := rows.Scan(
			&run.ID,
			&run.Source,
			&run.StartedUnix,
			&run.EndedUnix,
			&run.RowsRead,
			&run.RowsInserted,
			&run.RowsUpdated,
			&run.Status,
			&run.ErrorMessage,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ingest run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// LatestIngestRun returns the most recently started run, or nil when no
// ingestion has happened yet.
func (db *DB) LatestIngestRun() (*IngestRun, error) {
	runs, err := db.ListIngestRuns(1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}
