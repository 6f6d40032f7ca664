package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/banshee-data/depth.report/internal/db"
	"github.com/banshee-data/depth.report/internal/httputil"
	"github.com/banshee-data/depth.report/internal/scan"
)

// FrameURL builds the image_frame request URL for the given bounds. An empty
// colormap leaves the choice to the server.
func FrameURL(baseURL string, minDepth, maxDepth float64, colormap string) string {
	q := url.Values{}
	q.Set("depth_min", strconv.FormatFloat(minDepth, 'g', -1, 64))
	q.Set("depth_max", strconv.FormatFloat(maxDepth, 'g', -1, 64))
	if colormap != "" {
		q.Set("colormap", colormap)
	}
	return strings.TrimRight(baseURL, "/") + "/image_frame?" + q.Encode()
}

// FetchFrame requests a rendered frame from a running server and returns the
// PNG bytes.
func FetchFrame(client httputil.HTTPClient, baseURL string, minDepth, maxDepth float64, colormap string) ([]byte, error) {
	resp, err := client.Get(FrameURL(baseURL, minDepth, maxDepth, colormap))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

// RenderFromFile opens the database at dbPath and delegates to
// RenderFromStore.
func RenderFromFile(ctx context.Context, dbPath string, minDepth, maxDepth float64, colormap string) ([]byte, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("DB path %s not accessible: %w", dbPath, err)
	}

	database, err := db.NewDB(dbPath)
	if err != nil {
		return nil, err
	}
	defer database.Close()

	return RenderFromStore(ctx, database, minDepth, maxDepth, colormap)
}

// RenderFromStore renders a frame from an open store (useful for tests).
func RenderFromStore(ctx context.Context, database *db.DB, minDepth, maxDepth float64, colormap string) ([]byte, error) {
	if err := scan.CheckRange(minDepth, maxDepth); err != nil {
		return nil, err
	}
	if colormap == "" {
		colormap = scan.DefaultTransform
	}
	transform, err := scan.LookupTransform(colormap)
	if err != nil {
		return nil, err
	}

	lines, err := database.QueryScanlines(ctx, minDepth, maxDepth)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, scan.ErrNoData
	}

	rows := make([][]float64, len(lines))
	for i, line := range lines {
		rows[i] = line.Samples
	}
	return scan.SynthesizeFrame(rows, transform)
}

// WriteFrameFile writes the PNG to path, creating parent directories as
// needed.
func WriteFrameFile(path string, frame []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}
	return os.WriteFile(path, frame, 0644)
}
