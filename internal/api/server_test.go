package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/banshee-data/depth.report/internal/db"
	"github.com/banshee-data/depth.report/internal/pool"
	"github.com/banshee-data/depth.report/internal/scan"
	"github.com/banshee-data/depth.report/internal/version"
)

func setupTestServer(t *testing.T) (*Server, *db.DB) {
	t.Helper()

	database, err := db.NewDB(cloneAPITestDB(t))
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}

	workers := pool.New(4, 16)

	t.Cleanup(func() {
		workers.Close()
		if err := database.Close(); err != nil {
			t.Errorf("failed to close test DB: %v", err)
		}
	})

	return NewServer(database, workers, 2*time.Second, scan.DefaultTransform), database
}

// seedScanlines inserts one frame-width scanline per depth, filled with the
// matching constant intensity.
func seedScanlines(t *testing.T, database *db.DB, depths []float64, fills []float64) {
	t.Helper()

	if len(depths) != len(fills) {
		t.Fatalf("seedScanlines: %d depths but %d fills", len(depths), len(fills))
	}

	lines := make([]scan.Scanline, len(depths))
	for i := range depths {
		samples := make([]float64, scan.FrameWidth)
		for j := range samples {
			samples[j] = fills[i]
		}
		lines[i] = scan.Scanline{Depth: depths[i], Samples: samples}
	}

	if _, err := database.UpsertScanlines(context.Background(), lines); err != nil {
		t.Fatalf("failed to seed scanlines: %v", err)
	}
}

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	return body["error"]
}

func TestRootEndpoint(t *testing.T) {
	server, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	server.ServeMux().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode root response: %v", err)
	}
	if body["message"] != "Depth Image API" {
		t.Errorf("expected message %q, got %q", "Depth Image API", body["message"])
	}
	if body["version"] != version.Version {
		t.Errorf("expected version %q, got %q", version.Version, body["version"])
	}
}

func TestRootRejectsUnknownPath(t *testing.T) {
	server, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/no/such/route", nil)
	rec := httptest.NewRecorder()
	server.ServeMux().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestRootRejectsPost(t *testing.T) {
	server, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	server.ServeMux().ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	server, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	server.ServeMux().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("expected status %q, got %q", "healthy", body["status"])
	}
}

func TestLoggingMiddlewareSetsRequestID(t *testing.T) {
	server, _ := setupTestServer(t)

	handler := LoggingMiddleware(server.ServeMux())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	reqID := rec.Header().Get("X-Request-ID")
	if len(reqID) != 8 {
		t.Errorf("expected 8-character request ID, got %q", reqID)
	}
}

func TestLoggingMiddlewarePreservesStatusCode(t *testing.T) {
	handler := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/teapot", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected status 418, got %d", rec.Code)
	}
}

func TestStatusCodeColor(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{http.StatusOK, colorBoldGreen},
		{http.StatusNotFound, colorBoldRed},
		{http.StatusInternalServerError, colorBoldRed},
		{http.StatusFound, colorYellow},
	}

	for _, tt := range tests {
		got := statusCodeColor(tt.code)
		if !strings.HasPrefix(got, tt.want) {
			t.Errorf("statusCodeColor(%d) = %q, expected prefix %q", tt.code, got, tt.want)
		}
		if !strings.HasSuffix(got, colorReset) {
			t.Errorf("statusCodeColor(%d) = %q, expected %q suffix", tt.code, got, colorReset)
		}
	}
}

func TestStatusCodeColorInformationalUncolored(t *testing.T) {
	if got := statusCodeColor(http.StatusContinue); got != "100" {
		t.Errorf("statusCodeColor(100) = %q, expected plain %q", got, "100")
	}
}
