package scan

import (
	"errors"
	"math"
	"testing"
)

func TestRawScanlineValidate(t *testing.T) {
	testCases := []struct {
		name    string
		depth   float64
		samples []float64
		wantErr error
	}{
		{"valid", 125.5, constantRow(RawWidth, 1), nil},
		{"boundary_min_depth", MinDepth, constantRow(RawWidth, 1), nil},
		{"boundary_max_depth", MaxDepth, constantRow(RawWidth, 1), nil},
		{"short_row", 10, constantRow(RawWidth-1, 1), ErrInvalidInputShape},
		{"long_row", 10, constantRow(RawWidth+1, 1), ErrInvalidInputShape},
		{"empty_row", 10, nil, ErrInvalidInputShape},
		{"depth_below_domain", MinDepth - 1, constantRow(RawWidth, 1), ErrOutOfDomain},
		{"depth_above_domain", MaxDepth + 1, constantRow(RawWidth, 1), ErrOutOfDomain},
		{"nan_depth", math.NaN(), constantRow(RawWidth, 1), ErrOutOfDomain},
		{"inf_depth", math.Inf(1), constantRow(RawWidth, 1), ErrOutOfDomain},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			raw := RawScanline{Depth: tc.depth, Samples: tc.samples}
			err := raw.Validate()
			if tc.wantErr == nil {
				if err != nil {
					t.Errorf("expected valid scanline, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestRawScanlineValidateRejectsNonFiniteSamples(t *testing.T) {
	row := constantRow(RawWidth, 1)
	row[37] = math.NaN()
	raw := RawScanline{Depth: 10, Samples: row}
	if err := raw.Validate(); !errors.Is(err, ErrInvalidInputShape) {
		t.Errorf("expected ErrInvalidInputShape for NaN sample, got %v", err)
	}

	row[37] = math.Inf(-1)
	if err := raw.Validate(); !errors.Is(err, ErrInvalidInputShape) {
		t.Errorf("expected ErrInvalidInputShape for Inf sample, got %v", err)
	}
}

func TestCheckRange(t *testing.T) {
	testCases := []struct {
		name     string
		min, max float64
		wantErr  error
	}{
		{"valid", 0, 100, nil},
		{"single_point", 50, 50, nil},
		{"full_domain", MinDepth, MaxDepth, nil},
		{"inverted", 100, 0, ErrInvalidRange},
		{"nan_min", math.NaN(), 100, ErrInvalidRange},
		{"nan_max", 0, math.NaN(), ErrInvalidRange},
		{"min_below_domain", MinDepth - 0.5, 100, ErrOutOfDomain},
		{"max_above_domain", 0, MaxDepth + 0.5, ErrOutOfDomain},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckRange(tc.min, tc.max)
			if tc.wantErr == nil {
				if err != nil {
					t.Errorf("expected valid range, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestCheckRangeOrder(t *testing.T) {
	// An inverted range that is also out of domain reports the inversion.
	err := CheckRange(MaxDepth+10, MinDepth-10)
	if !errors.Is(err, ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange for inverted out-of-domain range, got %v", err)
	}
}
