package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	"github.com/banshee-data/depth.report/internal/api"
	"github.com/banshee-data/depth.report/internal/config"
	"github.com/banshee-data/depth.report/internal/db"
	"github.com/banshee-data/depth.report/internal/ingest"
	"github.com/banshee-data/depth.report/internal/pool"
	"github.com/banshee-data/depth.report/internal/version"
)

var (
	listen     = flag.String("listen", ":8080", "HTTP listen address")
	dbFile     = flag.String("db", "depth.db", "Path to the SQLite database file")
	configPath = flag.String("config", "", "Path to optional tuning JSON file")
	devMode    = flag.Bool("dev", false, "Run in dev mode (read migrations from disk)")
)

func main() {
	flag.Parse()

	db.DevMode = *devMode

	args := flag.Args()
	if len(args) == 0 {
		runServe()
		return
	}

	switch args[0] {
	case "serve":
		runServe()
	case "ingest":
		runIngest(args[1:])
	case "init":
		runInit(args[1:])
	case "migrate":
		db.RunMigrateCommand(args[1:], *dbFile)
	case "help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func loadTuning() *config.TuningConfig {
	if *configPath == "" {
		return config.EmptyTuningConfig()
	}
	cfg, err := config.LoadTuningConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load tuning config: %v", err)
	}
	log.Printf("Loaded tuning config from %s", *configPath)
	return cfg
}

func runServe() {
	if *listen == "" {
		log.Fatal("HTTP listen address is required")
	}

	cfg := loadTuning()

	log.Printf("depth.report %s", version.Info())

	database, err := db.NewDBWithMigrationCheck(*dbFile, true)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	workers := pool.New(cfg.GetWorkers(), cfg.GetQueueDepth())

	// Create a wait group for the HTTP server routine
	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// HTTP server goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()

		// create a new API server instance backed by the scanline store and
		// worker pool, and mount the API handlers
		server := api.NewServer(database, workers, cfg.GetRequestTimeout(), cfg.GetDefaultColormap())
		mux := server.ServeMux()

		database.AttachAdminRoutes(mux)

		httpServer := &http.Server{
			Addr:    *listen,
			Handler: api.LoggingMiddleware(mux),
		}

		// Start server in a goroutine so it doesn't block
		go func() {
			log.Printf("Starting HTTP server on %s", *listen)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		// Wait for context cancellation to shut down server
		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		// Create a shutdown context with a shorter timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
			// Force close the server if graceful shutdown fails
			if err := httpServer.Close(); err != nil {
				log.Printf("HTTP server force close error: %v", err)
			}
		}

		log.Printf("HTTP server routine stopped")
	}()

	// Wait for all goroutines to finish, then drain the worker pool so
	// in-flight frame tasks complete before the store closes.
	wg.Wait()
	workers.Close()
	log.Printf("Graceful shutdown complete")
}

func runIngest(args []string) {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	csvPath := fs.String("csv", "", "path to the scanline CSV file")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *csvPath == "" {
		fmt.Println("Usage: depth-report ingest -csv <file>")
		os.Exit(1)
	}

	database, err := db.NewDBWithMigrationCheck(*dbFile, true)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sum, err := ingest.File(ctx, database, *csvPath)
	if err != nil {
		log.Fatalf("Ingest failed: %v", err)
	}

	log.Printf("Ingest complete: %d rows read, %d inserted, %d updated (run %s)",
		sum.RowsRead, sum.Inserted, sum.Updated, sum.RunID)
}

func runInit(args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	forceRecreate := fs.Bool("force-recreate", false, "Drop all tables and recreate the schema (destroys stored data)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	database, err := db.OpenDB(*dbFile)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if *forceRecreate {
		log.Printf("Recreating schema in %s (all data will be lost)", *dbFile)
	}
	if err := database.Init(*forceRecreate); err != nil {
		log.Fatalf("Init failed: %v", err)
	}
	log.Printf("Database %s initialized", *dbFile)
}

func printUsage() {
	fmt.Println("Depth Image Service")
	fmt.Println()
	fmt.Println("Usage: depth-report [flags] <command> [args]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  serve                      Start the HTTP API server (default)")
	fmt.Println("  ingest -csv <file>         Ingest depth scanlines from a CSV file")
	fmt.Println("  init [-force-recreate]     Initialize the database schema")
	fmt.Println("  migrate <action>           Manage schema migrations (see 'migrate help')")
	fmt.Println("  help                       Show this help message")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  -listen <addr>    HTTP listen address (default :8080)")
	fmt.Println("  -db <path>        SQLite database file (default depth.db)")
	fmt.Println("  -config <path>    Optional tuning JSON file")
	fmt.Println("  -dev              Dev mode: read migrations from disk")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  depth-report -listen :8080 serve")
	fmt.Println("  depth-report ingest -csv scanlines.csv")
	fmt.Println("  depth-report init -force-recreate")
	fmt.Println("  depth-report migrate status")
}
