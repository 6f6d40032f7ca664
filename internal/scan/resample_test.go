package scan

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func rampRow(n int) []float64 {
	row := make([]float64, n)
	for i := range row {
		row[i] = float64(i)
	}
	return row
}

func constantRow(n int, v float64) []float64 {
	row := make([]float64, n)
	for i := range row {
		row[i] = v
	}
	return row
}

func TestResampleLength(t *testing.T) {
	out, err := Resample(rampRow(RawWidth))
	if err != nil {
		t.Fatalf("Resample failed: %v", err)
	}
	if len(out) != FrameWidth {
		t.Errorf("expected %d output samples, got %d", FrameWidth, len(out))
	}
}

func TestResampleEndpoints(t *testing.T) {
	row := rampRow(RawWidth)
	row[0] = -17.25
	row[RawWidth-1] = 4096.5

	out, err := Resample(row)
	if err != nil {
		t.Fatalf("Resample failed: %v", err)
	}
	if out[0] != row[0] {
		t.Errorf("first output sample = %v, want %v", out[0], row[0])
	}
	if out[FrameWidth-1] != row[RawWidth-1] {
		t.Errorf("last output sample = %v, want %v", out[FrameWidth-1], row[RawWidth-1])
	}
}

func TestResampleWithinBounds(t *testing.T) {
	// Alternating integer samples stress every interpolation segment.
	row := make([]float64, RawWidth)
	for i := range row {
		if i%2 == 0 {
			row[i] = 10
		} else {
			row[i] = 250
		}
	}

	out, err := Resample(row)
	if err != nil {
		t.Fatalf("Resample failed: %v", err)
	}
	for i, v := range out {
		if v < 10 || v > 250 {
			t.Errorf("output sample %d = %v outside input bounds [10, 250]", i, v)
		}
	}
}

func TestResampleConstantRow(t *testing.T) {
	out, err := Resample(constantRow(RawWidth, 50))
	if err != nil {
		t.Fatalf("Resample failed: %v", err)
	}
	if diff := cmp.Diff(constantRow(FrameWidth, 50), out); diff != "" {
		t.Errorf("constant row changed under resampling (-want +got):\n%s", diff)
	}
}

func TestResampleLinearRamp(t *testing.T) {
	// Linear interpolation reproduces a linear signal: output i should sit at
	// position i*199/149 on the ramp.
	out, err := Resample(rampRow(RawWidth))
	if err != nil {
		t.Fatalf("Resample failed: %v", err)
	}
	for i, v := range out {
		want := float64(i) * float64(RawWidth-1) / float64(FrameWidth-1)
		if math.Abs(v-want) > 1e-9 {
			t.Errorf("output sample %d = %v, want %v", i, v, want)
		}
	}
}

func TestResampleRejectsWrongLength(t *testing.T) {
	testCases := []struct {
		name string
		n    int
	}{
		{"empty", 0},
		{"short", RawWidth - 1},
		{"long", RawWidth + 1},
		{"already_resampled", FrameWidth},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Resample(make([]float64, tc.n))
			if !errors.Is(err, ErrInvalidInputShape) {
				t.Errorf("expected ErrInvalidInputShape for length %d, got %v", tc.n, err)
			}
		})
	}
}

func TestResampleDoesNotMutateInput(t *testing.T) {
	row := rampRow(RawWidth)
	orig := make([]float64, RawWidth)
	copy(orig, row)

	if _, err := Resample(row); err != nil {
		t.Fatalf("Resample failed: %v", err)
	}
	if diff := cmp.Diff(orig, row); diff != "" {
		t.Errorf("input row mutated (-want +got):\n%s", diff)
	}
}
