package db

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
)

// DevMode switches migration loading from the embedded copy to the on-disk
// migrations directory, so schema changes can be iterated on without
// rebuilding the binary.
var DevMode = false

// localMigrationsDir is where migrations live relative to the repo root.
const localMigrationsDir = "internal/db/migrations"

//go:embed migrations
var migrationsFS embed.FS

// getMigrationsFS returns the migration files as a filesystem rooted at the
// files themselves. Production binaries use the embedded copy.
func getMigrationsFS() (fs.FS, error) {
	if DevMode {
		if _, err := os.Stat(localMigrationsDir); err != nil {
			return nil, fmt.Errorf("dev mode: migrations directory not found: %w", err)
		}
		return os.DirFS(localMigrationsDir), nil
	}

	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("embedded migrations unavailable: %w", err)
	}
	return sub, nil
}
