// Package ingest loads depth-tagged scanline CSVs into the store: read and
// validate the file, resample each row to the frame width, and upsert keyed
// by depth. Every pass is recorded as an ingest run.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/banshee-data/depth.report/internal/scan"
)

// ReadScanlineCSVFile opens path and reads it with ReadScanlineCSV.
func ReadScanlineCSVFile(path string) ([]scan.RawScanline, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer file.Close()

	return ReadScanlineCSV(file)
}

// ReadScanlineCSV reads depth-tagged scanlines from r. The header must be
// exactly depth,col1,...,col200; any structural problem (missing or misnamed
// columns, ragged rows, non-numeric or non-finite values, depth outside the
// domain) rejects the whole file. Rows are returned sorted by ascending
// depth; rows sharing a depth keep their file order.
func ReadScanlineCSV(r io.Reader) ([]scan.RawScanline, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		if errors.Is(err, csv.ErrFieldCount) {
			return nil, fmt.Errorf("%w: %v", scan.ErrInvalidInputShape, err)
		}
		return nil, fmt.Errorf("failed to read CSV: %v", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: CSV is empty", scan.ErrInvalidInputShape)
	}

	if err := validateHeader(records[0]); err != nil {
		return nil, err
	}

	rows := make([]scan.RawScanline, 0, len(records)-1)
	for i, record := range records[1:] {
		line := i + 2 // 1-based, after the header

		depth, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid depth at line %d: %v", scan.ErrInvalidInputShape, line, err)
		}

		samples := make([]float64, len(record)-1)
		for j, field := range record[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid col%d at line %d: %v", scan.ErrInvalidInputShape, j+1, line, err)
			}
			samples[j] = v
		}

		row := scan.RawScanline{Depth: depth, Samples: samples}
		if err := row.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(a, b int) bool { return rows[a].Depth < rows[b].Depth })
	return rows, nil
}

func validateHeader(header []string) error {
	if len(header) == 0 || header[0] != "depth" {
		return fmt.Errorf("%w: CSV must contain a 'depth' column", scan.ErrInvalidInputShape)
	}

	var missing []string
	for i := 1; i <= scan.RawWidth; i++ {
		want := fmt.Sprintf("col%d", i)
		if i >= len(header) || header[i] != want {
			missing = append(missing, want)
		}
	}
	if len(missing) > 5 {
		return fmt.Errorf("%w: missing columns: %s... (showing first 5 of %d)",
			scan.ErrInvalidInputShape, strings.Join(missing[:5], ", "), len(missing))
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing columns: %s", scan.ErrInvalidInputShape, strings.Join(missing, ", "))
	}
	if len(header) != scan.RawWidth+1 {
		return fmt.Errorf("%w: expected %d columns, got %d", scan.ErrInvalidInputShape, scan.RawWidth+1, len(header))
	}
	return nil
}
