// Package db persists resampled scanlines in SQLite and manages the schema
// through embedded migrations.
package db

import (
	"compress/gzip"
	"database/sql"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/tailscale/tailsql/server/tailsql"
	_ "modernc.org/sqlite"
	"tailscale.com/tsweb"
)

type DB struct {
	*sql.DB
}

// dsn appends the connection pragmas every database gets: WAL so readers
// stay live during ingestion, a busy timeout so concurrent writers queue
// instead of failing, NORMAL sync and in-memory temp tables. Pragmas ride
// the DSN so each pooled connection picks them up.
func dsn(path string) string {
	return path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=busy_timeout(5000)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=temp_store(MEMORY)"
}

// OpenDB opens the database at path without touching the schema. Migrations
// manage the schema separately; use NewDB when the schema should be brought
// up to date automatically.
func OpenDB(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, err
	}
	return &DB{sqlDB}, nil
}

// NewDB opens the database at path and applies any pending migrations.
func NewDB(path string) (*DB, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, err
	}

	migrations, err := getMigrationsFS()
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := db.MigrateUp(migrations); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// NewDBWithMigrationCheck opens the database at path but refuses to serve a
// stale schema: the caller gets an error telling them to run migrations
// instead of a silently auto-migrated database. A brand-new database file is
// initialized to the latest schema. Legacy databases without migration
// bookkeeping are schema-detected; with autoBaseline set, a legacy database
// whose schema exactly matches the latest migration is baselined and opened.
func NewDBWithMigrationCheck(path string, autoBaseline bool) (*DB, error) {
	migrations, err := getMigrationsFS()
	if err != nil {
		return nil, err
	}
	return newDBWithMigrationCheckFS(path, migrations, autoBaseline)
}

func newDBWithMigrationCheckFS(path string, migrations fs.FS, autoBaseline bool) (*DB, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, err
	}

	var hasBookkeeping bool
	err = db.QueryRow(`
		SELECT COUNT(*) > 0
		FROM sqlite_master
		WHERE type='table' AND name='schema_migrations'
	`).Scan(&hasBookkeeping)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to inspect database: %w", err)
	}

	if !hasBookkeeping {
		var tables int
		err = db.QueryRow(`
			SELECT COUNT(*)
			FROM sqlite_master
			WHERE type='table' AND name NOT LIKE 'sqlite_%'
		`).Scan(&tables)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to inspect database: %w", err)
		}

		if tables == 0 {
			// Brand-new database file: initialize it. The check only
			// protects existing databases from silent schema drift.
			if err := db.MigrateUp(migrations); err != nil {
				db.Close()
				return nil, fmt.Errorf("failed to initialize database: %w", err)
			}
			return db, nil
		}

		// Legacy database from before the migration system.
		version, score, _, detectErr := db.DetectSchemaVersion(migrations)
		if detectErr != nil {
			db.Close()
			return nil, fmt.Errorf("schema detection failed: %w", detectErr)
		}
		latest, latestErr := GetLatestMigrationVersion(migrations)
		if latestErr != nil {
			db.Close()
			return nil, latestErr
		}

		if autoBaseline && score == 100 && version == latest {
			if err := db.BaselineAtVersion(version); err != nil {
				db.Close()
				return nil, fmt.Errorf("failed to baseline database: %w", err)
			}
			return db, nil
		}

		db.Close()
		return nil, fmt.Errorf(
			"database has no migration history (closest schema: version %d, %d%% match). Run 'depth-report migrate detect' to diagnose",
			version, score)
	}

	if needed, err := db.CheckAndPromptMigrations(migrations); needed || err != nil {
		db.Close()
		if err == nil {
			err = fmt.Errorf("database schema is out of date")
		}
		return nil, err
	}

	return db, nil
}

// Init brings the schema to the latest version. With forceRecreate set it
// drops every object first, destroying all stored scanlines and ingest
// history. Calling Init on an up-to-date database is a no-op.
func (db *DB) Init(forceRecreate bool) error {
	migrations, err := getMigrationsFS()
	if err != nil {
		return err
	}

	if forceRecreate {
		m, err := db.newMigrate(migrations)
		if err != nil {
			return err
		}
		if err := m.Drop(); err != nil {
			return fmt.Errorf("failed to drop schema: %w", err)
		}
	}

	return db.MigrateUp(migrations)
}

// AttachAdminRoutes mounts the operational endpoints on mux: a tailsql
// console for live SQL against the store and an on-demand backup download.
func (db *DB) AttachAdminRoutes(mux *http.ServeMux) {
	debug := tsweb.Debugger(mux)

	tsql, err := tailsql.NewServer(tailsql.Options{
		RoutePrefix: "/debug/tailsql/",
	})
	if err != nil {
		log.Fatalf("failed to create tailsql server: %v", err)
	}
	tsql.SetDB("sqlite://depth.db", db.DB, &tailsql.DBOptions{
		Label: "Depth DB",
	})

	debug.Handle("tailsql/", "SQL live debugging", tsql.NewMux())

	debug.Handle("backup", "Create and download a backup of the database now", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backupPath := fmt.Sprintf("depth-backup-%d.db", time.Now().Unix())

		// VACUUM INTO writes a compact, consistent snapshot without
		// blocking concurrent readers.
		if _, err := db.DB.Exec("VACUUM INTO ?", backupPath); err != nil {
			http.Error(w, fmt.Sprintf("Failed to create backup: %v", err), http.StatusInternalServerError)
			return
		}

		backupFile, err := os.Open(backupPath)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to open backup file: %v", err), http.StatusInternalServerError)
			return
		}
		defer func() {
			backupFile.Close()
			if err := os.Remove(backupPath); err != nil {
				log.Printf("Failed to remove backup file: %v", err)
			}
		}()

		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.gz", backupPath))
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Encoding", "gzip")

		gzipWriter := gzip.NewWriter(w)
		defer gzipWriter.Close()
		if _, err := io.Copy(gzipWriter, backupFile); err != nil {
			log.Printf("Failed to stream backup: %v", err)
		}
	}))
}
