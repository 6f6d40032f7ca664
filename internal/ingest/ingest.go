package ingest

import (
	"context"
	"fmt"

	"github.com/banshee-data/depth.report/internal/db"
	"github.com/banshee-data/depth.report/internal/monitoring"
	"github.com/banshee-data/depth.report/internal/scan"
)

var logf = monitoring.Component("ingest")

// Summary reports the outcome of one ingestion pass.
type Summary struct {
	RunID    string
	RowsRead int
	Inserted int
	Updated  int
}

// File ingests one CSV file end to end. Structural failures abort the pass
// before any scanline reaches the store; either way the pass is recorded in
// ingest_runs, failed passes with their error message.
func File(ctx context.Context, database *db.DB, path string) (Summary, error) {
	run := &db.IngestRun{Source: path}
	if err := database.CreateIngestRun(run); err != nil {
		return Summary{}, err
	}

	sum, err := runFile(ctx, database, run, path)
	sum.RunID = run.ID
	if err != nil {
		msg := err.Error()
		run.Status = db.IngestStatusFailed
		run.ErrorMessage = &msg
		if ferr := database.FinishIngestRun(run); ferr != nil {
			logf("failed to record failed run %s: %v", run.ID, ferr)
		}
		return sum, err
	}

	run.Status = db.IngestStatusCompleted
	run.RowsRead = int64(sum.RowsRead)
	run.RowsInserted = int64(sum.Inserted)
	run.RowsUpdated = int64(sum.Updated)
	if err := database.FinishIngestRun(run); err != nil {
		logf("failed to record run %s: %v", run.ID, err)
	}
	return sum, nil
}

func runFile(ctx context.Context, database *db.DB, run *db.IngestRun, path string) (Summary, error) {
	rows, err := ReadScanlineCSVFile(path)
	if err != nil {
		return Summary{}, err
	}
	logf("loaded %d scanlines from %s", len(rows), path)

	// Keep the count on the run so a failed upsert still reports how far
	// reading got.
	run.RowsRead = int64(len(rows))

	sum, err := Rows(ctx, database, rows)
	if err != nil {
		return sum, err
	}
	logf("upserted %d scanlines (%d inserted, %d updated)",
		sum.Inserted+sum.Updated, sum.Inserted, sum.Updated)
	return sum, nil
}

// Rows resamples the given scanlines to the frame width and upserts them
// keyed by depth. Rows are processed in the order given; when two share a
// depth the later samples win.
func Rows(ctx context.Context, database *db.DB, rows []scan.RawScanline) (Summary, error) {
	lines := make([]scan.Scanline, 0, len(rows))
	for _, row := range rows {
		samples, err := scan.Resample(row.Samples)
		if err != nil {
			return Summary{}, fmt.Errorf("depth %g: %w", row.Depth, err)
		}
		lines = append(lines, scan.Scanline{Depth: row.Depth, Samples: samples})
	}

	res, err := database.UpsertScanlines(ctx, lines)
	if err != nil {
		return Summary{RowsRead: len(rows)}, err
	}
	return Summary{RowsRead: len(rows), Inserted: res.Inserted, Updated: res.Updated}, nil
}
