// Package scan holds the scanline domain: raw and resampled scanline types,
// the 200→150 resampler, intensity normalization, the fixed color transform
// set and raster synthesis.
package scan

import (
	"fmt"
	"math"
)

const (
	// RawWidth is the sample count of an ingested scanline row.
	RawWidth = 200

	// FrameWidth is the sample count of a persisted (resampled) scanline and
	// the pixel width of every synthesized frame.
	FrameWidth = 150

	// MinDepth and MaxDepth bound the admissible depth domain for both
	// ingestion and queries.
	MinDepth = -1e6
	MaxDepth = 1e6
)

// RawScanline is one depth-tagged row as read from the ingestion source.
// Immutable once read; never persisted directly.
type RawScanline struct {
	Depth   float64
	Samples []float64 // length RawWidth
}

// Scanline is the persisted unit: a depth (unique across the store) and its
// resampled sample vector.
type Scanline struct {
	Depth   float64
	Samples []float64 // length FrameWidth
}

// Validate checks the structural invariants of a raw row: exact sample
// count, finite depth within the admissible domain, finite samples.
func (r RawScanline) Validate() error {
	if len(r.Samples) != RawWidth {
		return fmt.Errorf("%w: got %d samples, want %d", ErrInvalidInputShape, len(r.Samples), RawWidth)
	}
	if math.IsNaN(r.Depth) || math.IsInf(r.Depth, 0) {
		return fmt.Errorf("%w: depth is not finite", ErrOutOfDomain)
	}
	if r.Depth < MinDepth || r.Depth > MaxDepth {
		return fmt.Errorf("%w: depth %g outside [%g, %g]", ErrOutOfDomain, r.Depth, float64(MinDepth), float64(MaxDepth))
	}
	for i, s := range r.Samples {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return fmt.Errorf("%w: sample %d is not finite", ErrInvalidInputShape, i)
		}
	}
	return nil
}

// CheckRange validates a depth query range: ordered bounds inside the
// admissible domain. It runs before any storage access.
func CheckRange(min, max float64) error {
	if math.IsNaN(min) || math.IsNaN(max) {
		return fmt.Errorf("%w: bounds must be numbers", ErrInvalidRange)
	}
	if min > max {
		return fmt.Errorf("%w: min %g > max %g", ErrInvalidRange, min, max)
	}
	if min < MinDepth || max > MaxDepth {
		return fmt.Errorf("%w: bounds must be between %g and %g", ErrOutOfDomain, float64(MinDepth), float64(MaxDepth))
	}
	return nil
}
