package scan

import (
	"fmt"

	"gonum.org/v1/gonum/interp"
)

// rawPositions are the fixed sample positions 0..RawWidth-1 of an input row.
var rawPositions = func() []float64 {
	xs := make([]float64, RawWidth)
	for i := range xs {
		xs[i] = float64(i)
	}
	return xs
}()

// framePositions are the FrameWidth output positions spread evenly across the
// same [0, RawWidth-1] span. The final position is pinned to the last input
// index so the last output sample is the last input sample exactly.
var framePositions = func() []float64 {
	xs := make([]float64, FrameWidth)
	step := float64(RawWidth-1) / float64(FrameWidth-1)
	for i := range xs {
		xs[i] = float64(i) * step
	}
	xs[FrameWidth-1] = float64(RawWidth - 1)
	return xs
}()

// Resample converts a RawWidth-sample row to a FrameWidth-sample row by
// linear interpolation over the [0, RawWidth-1] axis. The first and last
// output samples equal the first and last input samples, and every output
// value lies within [min(row), max(row)]. A constant row resamples to the
// same constant.
//
// Rows of any other length are rejected with ErrInvalidInputShape; the
// function never truncates or pads. Safe for concurrent use.
func Resample(row []float64) ([]float64, error) {
	if len(row) != RawWidth {
		return nil, fmt.Errorf("%w: got %d samples, want %d", ErrInvalidInputShape, len(row), RawWidth)
	}

	var pl interp.PiecewiseLinear
	if err := pl.Fit(rawPositions, row); err != nil {
		return nil, fmt.Errorf("fit sample row: %w", err)
	}

	out := make([]float64, FrameWidth)
	for i, x := range framePositions {
		out[i] = pl.Predict(x)
	}
	return out, nil
}
