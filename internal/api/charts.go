package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/depth.report/internal/httputil"
	"github.com/banshee-data/depth.report/internal/scan"
)

// showCoverageChart renders a quick HTML line chart of mean scanline
// intensity across the stored depth range. This is a debugging-only endpoint
// to eyeball store coverage without pulling frames.
func (s *Server) showCoverageChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	lines, err := s.db.QueryScanlines(r.Context(), scan.MinDepth, scan.MaxDepth)
	if err != nil {
		logf("coverage query failed: %v", err)
		httputil.InternalServerError(w, "Database query failed")
		return
	}
	if len(lines) == 0 {
		httputil.NotFound(w, "no scanlines available")
		return
	}

	depths := make([]string, 0, len(lines))
	means := make([]opts.LineData, 0, len(lines))
	for _, line := range lines {
		depths = append(depths, fmt.Sprintf("%g", line.Depth))
		means = append(means, opts.LineData{Value: stat.Mean(line.Samples, nil)})
	}

	chart := charts.NewLine()
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Depth Coverage",
			Theme:     "dark",
			Width:     "1200px",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title: "Depth Coverage",
			Subtitle: fmt.Sprintf("scanlines=%d depth=[%g, %g]",
				len(lines), lines[0].Depth, lines[len(lines)-1].Depth),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Depth"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Mean intensity"}),
	)
	chart.SetXAxis(depths).AddSeries("mean intensity", means)

	var buf bytes.Buffer
	if err := chart.Render(&buf); err != nil {
		logf("coverage chart render failed: %v", err)
		httputil.InternalServerError(w, "failed to render chart")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
