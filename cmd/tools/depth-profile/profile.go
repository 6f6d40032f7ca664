package main

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/depth.report/internal/db"
	"github.com/banshee-data/depth.report/internal/scan"
)

// ProfilePoint summarizes the sample intensities of one scanline.
type ProfilePoint struct {
	Depth float64
	Mean  float64
	Min   float64
	Max   float64
}

// ProfileFromFile opens the database at dbPath and delegates to
// ProfileFromStore.
func ProfileFromFile(ctx context.Context, dbPath string, minDepth, maxDepth float64) ([]ProfilePoint, error) {
	database, err := db.NewDB(dbPath)
	if err != nil {
		return nil, err
	}
	defer database.Close()

	return ProfileFromStore(ctx, database, minDepth, maxDepth)
}

// ProfileFromStore computes per-scanline intensity statistics for every depth
// in the inclusive [minDepth, maxDepth] range, ordered by depth ascending.
func ProfileFromStore(ctx context.Context, database *db.DB, minDepth, maxDepth float64) ([]ProfilePoint, error) {
	if err := scan.CheckRange(minDepth, maxDepth); err != nil {
		return nil, err
	}

	lines, err := database.QueryScanlines(ctx, minDepth, maxDepth)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, scan.ErrNoData
	}

	points := make([]ProfilePoint, len(lines))
	for i, line := range lines {
		points[i] = ProfilePoint{
			Depth: line.Depth,
			Mean:  stat.Mean(line.Samples, nil),
			Min:   floats.Min(line.Samples),
			Max:   floats.Max(line.Samples),
		}
	}
	return points, nil
}

// WriteProfilePlot renders the profile as a line chart PNG, creating parent
// directories as needed.
func WriteProfilePlot(points []ProfilePoint, path string) error {
	if len(points) == 0 {
		return fmt.Errorf("no profile points to plot")
	}

	p := plot.New()
	p.Title.Text = "Depth Profile"
	p.X.Label.Text = "Depth"
	p.Y.Label.Text = "Sample intensity"

	meanPts := make(plotter.XYs, len(points))
	minPts := make(plotter.XYs, len(points))
	maxPts := make(plotter.XYs, len(points))
	for i, pt := range points {
		meanPts[i] = plotter.XY{X: pt.Depth, Y: pt.Mean}
		minPts[i] = plotter.XY{X: pt.Depth, Y: pt.Min}
		maxPts[i] = plotter.XY{X: pt.Depth, Y: pt.Max}
	}

	meanLine, err := plotter.NewLine(meanPts)
	if err != nil {
		return err
	}
	meanLine.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	meanLine.Width = vg.Points(1.5)
	p.Add(meanLine)
	p.Legend.Add("mean", meanLine)

	minLine, err := plotter.NewLine(minPts)
	if err != nil {
		return err
	}
	minLine.Color = color.RGBA{R: 44, G: 160, B: 44, A: 255}
	minLine.Width = vg.Points(1)
	p.Add(minLine)
	p.Legend.Add("min", minLine)

	maxLine, err := plotter.NewLine(maxPts)
	if err != nil {
		return err
	}
	maxLine.Color = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	maxLine.Width = vg.Points(1)
	p.Add(maxLine)
	p.Legend.Add("max", maxLine)

	p.Legend.Top = true
	p.Legend.Left = false

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}
	if err := p.Save(12*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save profile plot: %w", err)
	}
	return nil
}
