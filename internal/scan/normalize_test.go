package scan

import (
	"errors"
	"testing"
)

func TestNormalizeConstantRows(t *testing.T) {
	rows := [][]float64{
		constantRow(FrameWidth, 50),
		constantRow(FrameWidth, 50),
	}

	out, err := Normalize(rows)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	for y, row := range out {
		for x, v := range row {
			if v != 127 {
				t.Fatalf("pixel (%d,%d) = %d, want 127 for constant input", x, y, v)
			}
		}
	}
}

func TestNormalizeSpansFullRange(t *testing.T) {
	// Global min and max must land on 0 and 255 exactly.
	rows := [][]float64{
		constantRow(FrameWidth, 20),
		constantRow(FrameWidth, 80),
	}
	rows[0][0] = 10  // global min
	rows[1][10] = 90 // global max

	out, err := Normalize(rows)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if out[0][0] != 0 {
		t.Errorf("global min normalized to %d, want 0", out[0][0])
	}
	if out[1][10] != 255 {
		t.Errorf("global max normalized to %d, want 255", out[1][10])
	}
}

func TestNormalizeRounding(t *testing.T) {
	testCases := []struct {
		name   string
		sample float64
		want   uint8
	}{
		{"min", 0, 0},
		{"max", 100, 255},
		{"midpoint_rounds_up", 50, 128}, // 127.5 rounds half away from zero
		{"quarter", 25, 64},             // 63.75
		{"near_max", 99, 252},           // 252.45
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rows := [][]float64{constantRow(FrameWidth, 0)}
			rows[0][0] = tc.sample
			rows[0][1] = 100 // pin global max
			out, err := Normalize(rows)
			if err != nil {
				t.Fatalf("Normalize failed: %v", err)
			}
			if out[0][0] != tc.want {
				t.Errorf("sample %v normalized to %d, want %d", tc.sample, out[0][0], tc.want)
			}
		})
	}
}

func TestNormalizeNegativeValues(t *testing.T) {
	rows := [][]float64{constantRow(FrameWidth, -100)}
	rows[0][0] = -300

	out, err := Normalize(rows)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if out[0][0] != 0 {
		t.Errorf("global min normalized to %d, want 0", out[0][0])
	}
	if out[0][1] != 255 {
		t.Errorf("global max normalized to %d, want 255", out[0][1])
	}
}

func TestNormalizeEmpty(t *testing.T) {
	if _, err := Normalize(nil); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData for nil rows, got %v", err)
	}
	if _, err := Normalize([][]float64{}); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData for empty rows, got %v", err)
	}
}
