package db

import (
	"context"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// StoreStats summarizes the scanlines inside one depth range: how the depths
// are distributed and how the sample intensities spread. Spacing is the gap
// between consecutive depths in ascending order; uneven spacing shows up as a
// large spacing deviation relative to the mean.
type StoreStats struct {
	Count           int64   `json:"count"`
	MinDepth        float64 `json:"min_depth"`
	MaxDepth        float64 `json:"max_depth"`
	MeanDepth       float64 `json:"mean_depth"`
	DepthStdDev     float64 `json:"depth_std_dev"`
	MeanSpacing     float64 `json:"mean_spacing"`
	SpacingStdDev   float64 `json:"spacing_std_dev"`
	SampleMin       float64 `json:"sample_min"`
	SampleMax       float64 `json:"sample_max"`
	SampleMean      float64 `json:"sample_mean"`
	SampleStdDev    float64 `json:"sample_std_dev"`
	SampleMedian    float64 `json:"sample_median"`
	LastIngestRunID string  `json:"last_ingest_run_id,omitempty"`
}

// ScanlineStats computes summary statistics over the scanlines whose depth
// lies inside the inclusive [minDepth, maxDepth] range. An empty range yields
// zero statistics, not an error. The last ingest run is store-wide
// bookkeeping and is reported regardless of the range.
func (db *DB) ScanlineStats(ctx context.Context, minDepth, maxDepth float64) (StoreStats, error) {
	lines, err := db.QueryScanlines(ctx, minDepth, maxDepth)
	if err != nil {
		return StoreStats{}, err
	}

	s := StoreStats{Count: int64(len(lines))}
	if run, err := db.LatestIngestRun(); err == nil && run != nil {
		s.LastIngestRunID = run.ID
	}
	if len(lines) == 0 {
		return s, nil
	}

	depths := make([]float64, len(lines))
	samples := make([]float64, 0, len(lines)*len(lines[0].Samples))
	for i, line := range lines {
		depths[i] = line.Depth
		samples = append(samples, line.Samples...)
	}

	s.MinDepth = depths[0]
	s.MaxDepth = depths[len(depths)-1]
	s.MeanDepth = stat.Mean(depths, nil)
	if len(depths) > 1 {
		s.DepthStdDev = stat.StdDev(depths, nil)

		spacings := make([]float64, len(depths)-1)
		for i := 1; i < len(depths); i++ {
			spacings[i-1] = depths[i] - depths[i-1]
		}
		s.MeanSpacing = stat.Mean(spacings, nil)
		if len(spacings) > 1 {
			s.SpacingStdDev = stat.StdDev(spacings, nil)
		}
	}

	s.SampleMin = floats.Min(samples)
	s.SampleMax = floats.Max(samples)
	s.SampleMean = stat.Mean(samples, nil)
	if len(samples) > 1 {
		s.SampleStdDev = stat.StdDev(samples, nil)
	}
	sort.Float64s(samples)
	s.SampleMedian = stat.Quantile(0.5, stat.Empirical, samples, nil)

	return s, nil
}
