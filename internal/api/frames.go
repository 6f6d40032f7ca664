package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/banshee-data/depth.report/internal/httputil"
	"github.com/banshee-data/depth.report/internal/pool"
	"github.com/banshee-data/depth.report/internal/scan"
)

// getImageFrame serves GET /image_frame?depth_min=&depth_max=&colormap=.
// Validation runs on the request goroutine; query, synthesis and encoding
// run as one unit of work on the worker pool under the request deadline, so
// a response is either a complete PNG or an error body, never a partial
// image.
func (s *Server) getImageFrame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	q := r.URL.Query()
	depthMin, depthMax, ok := parseDepthRange(w, q.Get("depth_min"), q.Get("depth_max"))
	if !ok {
		return
	}

	name := q.Get("colormap")
	if name == "" {
		name = s.defaultColormap
	}
	transform, err := scan.LookupTransform(name)
	if err != nil {
		httputil.BadRequest(w, fmt.Sprintf("Invalid colormap. Available options: %s",
			strings.Join(scan.TransformNames(), ", ")))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	var frame []byte
	err = s.workers.Do(ctx, func(ctx context.Context) error {
		lines, err := s.db.QueryScanlines(ctx, depthMin, depthMax)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return scan.ErrNoData
		}

		rows := make([][]float64, len(lines))
		for i, line := range lines {
			rows[i] = line.Samples
		}
		frame, err = scan.SynthesizeFrame(rows, transform)
		return err
	})
	if errors.Is(err, context.DeadlineExceeded) {
		// The deadline is this handler's own budget, whether it expired in
		// the queue or mid-stage.
		err = scan.ErrTimeout
	}
	if err != nil {
		s.respondFrameError(w, err)
		return
	}

	httputil.WritePNG(w, frameFilename(depthMin, depthMax), frame)
}

// parseDepthRange parses and validates a depth bound pair, writing the error
// response itself on failure. The bool reports whether the caller should
// continue.
func parseDepthRange(w http.ResponseWriter, minRaw, maxRaw string) (float64, float64, bool) {
	depthMin, errMin := strconv.ParseFloat(minRaw, 64)
	depthMax, errMax := strconv.ParseFloat(maxRaw, 64)
	if errMin != nil || errMax != nil {
		httputil.BadRequest(w, "Invalid depth range")
		return 0, 0, false
	}
	if err := scan.CheckRange(depthMin, depthMax); err != nil {
		if errors.Is(err, scan.ErrOutOfDomain) {
			httputil.BadRequest(w, fmt.Sprintf("Depth values must be between %g and %g",
				scan.MinDepth, scan.MaxDepth))
			return 0, 0, false
		}
		httputil.BadRequest(w, "Invalid depth range")
		return 0, 0, false
	}
	return depthMin, depthMax, true
}

// respondFrameError maps pipeline failures to their stable response strings.
// Engine details are logged, never echoed to the client.
func (s *Server) respondFrameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, scan.ErrNoData):
		httputil.NotFound(w, "No data in specified depth range")
	case errors.Is(err, scan.ErrTimeout) || errors.Is(err, context.Canceled):
		httputil.ServiceUnavailable(w, "Request timed out")
	case errors.Is(err, pool.ErrClosed):
		httputil.ServiceUnavailable(w, "Service shutting down")
	case errors.Is(err, scan.ErrStoreUnavailable):
		logf("image_frame query failed: %v", err)
		httputil.InternalServerError(w, "Database query failed")
	default:
		logf("image_frame synthesis failed: %v", err)
		httputil.InternalServerError(w, "Image generation failed")
	}
}
