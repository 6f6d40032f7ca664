package api

import (
	"net/http"

	"github.com/banshee-data/depth.report/internal/httputil"
	"github.com/banshee-data/depth.report/internal/scan"
)

// showStats serves GET /api/stats?depth_min=&depth_max=: depth coverage and
// sample intensity statistics for a range, plus the most recent ingest run.
// Omitting both bounds covers the whole depth domain.
func (s *Server) showStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	q := r.URL.Query()
	depthMin, depthMax := scan.MinDepth, scan.MaxDepth
	if q.Get("depth_min") != "" || q.Get("depth_max") != "" {
		var ok bool
		depthMin, depthMax, ok = parseDepthRange(w, q.Get("depth_min"), q.Get("depth_max"))
		if !ok {
			return
		}
	}

	stats, err := s.db.ScanlineStats(r.Context(), depthMin, depthMax)
	if err != nil {
		logf("stats query failed: %v", err)
		httputil.InternalServerError(w, "Database query failed")
		return
	}

	httputil.WriteJSONOK(w, stats)
}
