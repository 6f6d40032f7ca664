package db

import (
	"database/sql"
	"os"
	"testing"

	"github.com/banshee-data/depth.report/internal/scan"
)

// setupTestDB creates a fully migrated database named for the running test.
func setupTestDB(t *testing.T) *DB {
	t.Helper()
	fname := t.Name() + ".db"
	_ = os.Remove(fname)

	db, err := NewDB(fname)
	if err != nil {
		t.Fatalf("failed to create test DB: %v", err)
	}
	return db
}

func cleanupTestDB(t *testing.T, db *DB) {
	t.Helper()
	fname := t.Name() + ".db"
	db.Close()
	_ = os.Remove(fname)
	_ = os.Remove(fname + "-shm")
	_ = os.Remove(fname + "-wal")
}

// setupEmptyTestDB opens a database without applying any schema, for
// migration and schema detection tests that manage versions themselves.
func setupEmptyTestDB(t *testing.T) *DB {
	t.Helper()
	fname := t.Name() + "_migrations.db"
	_ = os.Remove(fname)

	sqlDB, err := sql.Open("sqlite", dsn(fname))
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}

	return &DB{sqlDB}
}

func cleanupEmptyTestDB(t *testing.T, db *DB) {
	t.Helper()
	fname := t.Name() + "_migrations.db"
	db.Close()
	_ = os.Remove(fname)
	_ = os.Remove(fname + "-shm")
	_ = os.Remove(fname + "-wal")
}

// constantScanline builds a scanline whose samples all hold the same value.
func constantScanline(depth, fill float64) scan.Scanline {
	samples := make([]float64, scan.FrameWidth)
	for i := range samples {
		samples[i] = fill
	}
	return scan.Scanline{Depth: depth, Samples: samples}
}

// rampScanline builds a scanline whose samples ramp from 0 upward, offset by
// the depth so every scanline is distinguishable.
func rampScanline(depth float64) scan.Scanline {
	samples := make([]float64, scan.FrameWidth)
	for i := range samples {
		samples[i] = depth + float64(i)
	}
	return scan.Scanline{Depth: depth, Samples: samples}
}

func strPtr(s string) *string {
	return &s
}
