package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/banshee-data/depth.report/internal/scan"
)

// upsertBatchSize caps how many scanlines one transaction holds. Large
// ingests commit in slices so a failure late in the batch doesn't hold a
// giant transaction open.
const upsertBatchSize = 1000

// UpsertResult reports how a batch landed: how many scanlines were newly
// inserted and how many replaced an existing depth.
type UpsertResult struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
}

// UpsertScanlines writes a batch of resampled scanlines, keyed by depth.
// A depth already in the store gets its samples replaced; a new depth gets a
// fresh row. The batch is committed in slices of upsertBatchSize, each slice
// atomic. The returned counts aggregate across slices; when a duplicate
// depth appears twice within the batch the later row wins and counts as an
// update.
func (db *DB) UpsertScanlines(ctx context.Context, lines []scan.Scanline) (UpsertResult, error) {
	var result UpsertResult

	for start := 0; start < len(lines); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(lines) {
			end = len(lines)
		}

		slice, err := db.upsertSlice(ctx, lines[start:end])
		result.Inserted += slice.Inserted
		result.Updated += slice.Updated
		if err != nil {
			return result, fmt.Errorf("upsert failed at row %d: %w", start, err)
		}
	}

	return result, nil
}

func (db *DB) upsertSlice(ctx context.Context, lines []scan.Scanline) (UpsertResult, error) {
	for _, line := range lines {
		if len(line.Samples) != scan.FrameWidth {
			return UpsertResult{}, fmt.Errorf("%w: got %d samples, want %d", scan.ErrInvalidInputShape, len(line.Samples), scan.FrameWidth)
		}
	}

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return UpsertResult{}, storeError(ctx, err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			// ErrTxDone means transaction was already committed/rolled back
			log.Printf("warning: failed to rollback transaction: %v", err)
		}
	}()

	existsStmt, err := tx.PrepareContext(ctx, "SELECT COUNT(*) FROM scanlines WHERE depth = ?")
	if err != nil {
		return UpsertResult{}, storeError(ctx, err)
	}
	defer existsStmt.Close()

	upsertStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO scanlines (id, depth, samples)
		VALUES (?, ?, ?)
		ON CONFLICT(depth) DO UPDATE SET
			samples = excluded.samples,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return UpsertResult{}, storeError(ctx, err)
	}
	defer upsertStmt.Close()

	var applied UpsertResult
	for _, line := range lines {
		var existing int
		if err := existsStmt.QueryRowContext(ctx, line.Depth).Scan(&existing); err != nil {
			return UpsertResult{}, storeError(ctx, err)
		}

		blob, err := encodeSamples(line.Samples)
		if err != nil {
			return UpsertResult{}, err
		}

		if _, err := upsertStmt.ExecContext(ctx, uuid.New().String(), line.Depth, blob); err != nil {
			return UpsertResult{}, storeError(ctx, err)
		}

		if existing > 0 {
			applied.Updated++
		} else {
			applied.Inserted++
		}
	}

	// Counts only become visible once the slice has committed.
	if err := tx.Commit(); err != nil {
		return UpsertResult{}, storeError(ctx, err)
	}

	return applied, nil
}

// QueryScanlines returns the scanlines whose depth lies inside the inclusive
// [minDepth, maxDepth] range, ordered by depth ascending. An empty result is
// not an error.
func (db *DB) QueryScanlines(ctx context.Context, minDepth, maxDepth float64) ([]scan.Scanline, error) {
	if minDepth > maxDepth {
		return nil, fmt.Errorf("%w: min %g > max %g", scan.ErrInvalidRange, minDepth, maxDepth)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT depth, samples
		FROM scanlines
		WHERE depth >= ? AND depth <= ?
		ORDER BY depth ASC
	`, minDepth, maxDepth)
	if err != nil {
		return nil, storeError(ctx, err)
	}
	defer rows.Close()

	var lines []scan.Scanline
	for rows.Next() {
		var (
			depth float64
			blob  []byte
		)
		if err := rows.Scan(&depth, &blob); err != nil {
			return nil, storeError(ctx, err)
		}

		samples, err := decodeSamples(blob)
		if err != nil {
			return nil, fmt.Errorf("corrupt samples at depth %g: %w", depth, err)
		}

		lines = append(lines, scan.Scanline{Depth: depth, Samples: samples})
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(ctx, err)
	}

	return lines, nil
}

// CountScanlines returns the number of stored scanlines.
func (db *DB) CountScanlines(ctx context.Context) (int64, error) {
	var count int64
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM scanlines").Scan(&count); err != nil {
		return 0, storeError(ctx, err)
	}
	return count, nil
}

// storeError keeps cancellation distinguishable from storage failure:
// a context error passes through untouched so callers can map deadlines to
// timeouts, everything else is tagged as a store failure.
func storeError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return fmt.Errorf("%w: %v", scan.ErrStoreUnavailable, err)
}
