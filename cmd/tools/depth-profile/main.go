// Command depth-profile plots per-depth intensity statistics from a scanline
// database. The output is a line chart PNG showing mean, minimum and maximum
// sample intensity against depth.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	_ "modernc.org/sqlite"
)

func main() {
	dbPath := flag.String("db", "depth.db", "path to sqlite DB file")
	depthMin := flag.Float64("min", -1e6, "minimum depth (inclusive)")
	depthMax := flag.Float64("max", 1e6, "maximum depth (inclusive)")
	output := flag.String("o", "depth_profile.png", "output PNG path")
	flag.Parse()

	if _, err := os.Stat(*dbPath); err != nil {
		log.Fatalf("DB path %s not accessible: %v", *dbPath, err)
	}

	points, err := ProfileFromFile(context.Background(), *dbPath, *depthMin, *depthMax)
	if err != nil {
		log.Fatalf("profile failed: %v", err)
	}

	if err := WriteProfilePlot(points, *output); err != nil {
		log.Fatalf("plot failed: %v", err)
	}
	log.Printf("✓ Created: %s (%d scanlines)", *output, len(points))
}
