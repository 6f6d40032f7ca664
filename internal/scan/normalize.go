package scan

import "math"

// midIntensity is the value every sample maps to when the input is constant
// (no spread to normalize over).
const midIntensity = 127

// Normalize maps every sample across all rows onto the 0–255 intensity
// scale. The minimum sample maps to 0 and the maximum to 255; everything in
// between scales linearly with round-to-nearest. Constant input maps every
// sample to midIntensity. An empty row set fails with ErrNoData.
func Normalize(rows [][]float64) ([][]uint8, error) {
	if len(rows) == 0 {
		return nil, ErrNoData
	}

	lo := math.Inf(1)
	hi := math.Inf(-1)
	for _, row := range rows {
		for _, s := range row {
			if s < lo {
				lo = s
			}
			if s > hi {
				hi = s
			}
		}
	}

	out := make([][]uint8, len(rows))
	if lo == hi {
		for i, row := range rows {
			n := make([]uint8, len(row))
			for j := range n {
				n[j] = midIntensity
			}
			out[i] = n
		}
		return out, nil
	}

	spread := hi - lo
	for i, row := range rows {
		n := make([]uint8, len(row))
		for j, s := range row {
			v := math.Round((s - lo) / spread * 255)
			if v < 0 {
				v = 0
			} else if v > 255 {
				v = 255
			}
			n[j] = uint8(v)
		}
		out[i] = n
	}
	return out, nil
}
