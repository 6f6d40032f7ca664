// Command render-frame renders a depth frame to a PNG file, either directly
// from a database file or by fetching it from a running server.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"time"

	_ "modernc.org/sqlite"

	"github.com/banshee-data/depth.report/internal/httputil"
)

func main() {
	dbPath := flag.String("db", "depth.db", "path to sqlite DB file")
	serverURL := flag.String("url", "", "base URL of a running server (renders locally when empty)")
	depthMin := flag.Float64("min", 0, "minimum depth (inclusive)")
	depthMax := flag.Float64("max", 0, "maximum depth (inclusive)")
	colormap := flag.String("colormap", "", "colour transform to apply (default when empty)")
	output := flag.String("o", "frame.png", "output PNG path")
	flag.Parse()

	var (
		frame []byte
		err   error
	)
	if *serverURL != "" {
		client := httputil.NewStandardClient(&http.Client{Timeout: 30 * time.Second})
		frame, err = FetchFrame(client, *serverURL, *depthMin, *depthMax, *colormap)
	} else {
		frame, err = RenderFromFile(context.Background(), *dbPath, *depthMin, *depthMax, *colormap)
	}
	if err != nil {
		log.Fatalf("render failed: %v", err)
	}

	if err := WriteFrameFile(*output, frame); err != nil {
		log.Fatalf("write failed: %v", err)
	}
	log.Printf("✓ Created: %s (%d bytes)", *output, len(frame))
}
