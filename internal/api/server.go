// Package api serves depth image frames and store diagnostics over HTTP.
package api

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/depth.report/internal/db"
	"github.com/banshee-data/depth.report/internal/httputil"
	"github.com/banshee-data/depth.report/internal/monitoring"
	"github.com/banshee-data/depth.report/internal/pool"
	"github.com/banshee-data/depth.report/internal/version"
)

// ANSI escape codes for cyan and reset
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

var logf = monitoring.Component("api")

// Server answers frame requests against the scanline store. Heavy request
// stages (store query, frame synthesis, PNG encode) run as one task on a
// bounded worker pool; each request carries a deadline.
type Server struct {
	db              *db.DB
	workers         *pool.Pool
	requestTimeout  time.Duration
	defaultColormap string
}

func NewServer(database *db.DB, workers *pool.Pool, requestTimeout time.Duration, defaultColormap string) *Server {
	return &Server{
		db:              database,
		workers:         workers,
		requestTimeout:  requestTimeout,
		defaultColormap: defaultColormap,
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400 && statusCode < 500:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 500:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, duration and a short
// per-request id, which is also echoed in the X-Request-ID header.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := uuid.New().String()[:8]
		w.Header().Set("X-Request-ID", reqID)
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms req=%s",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
			reqID,
		)
	})
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.showRoot)
	mux.HandleFunc("/health", s.showHealth)
	mux.HandleFunc("/image_frame", s.getImageFrame)
	mux.HandleFunc("/api/stats", s.showStats)
	mux.HandleFunc("/debug/coverage", s.showCoverageChart)
	return mux
}

// showRoot identifies the service. The "/" pattern catches every path the
// mux has no better match for, so anything else is a 404.
func (s *Server) showRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		httputil.NotFound(w, "not found")
		return
	}
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	httputil.WriteJSONOK(w, map[string]string{
		"message": "Depth Image API",
		"version": version.Version,
	})
}

func (s *Server) showHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	httputil.WriteJSONOK(w, map[string]string{"status": "healthy"})
}
