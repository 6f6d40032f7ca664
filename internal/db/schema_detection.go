package db

import (
	"database/sql"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

// GetDatabaseSchema extracts the schema of this database as a map of object
// name to its CREATE statement. Tables, indexes and triggers are included;
// sqlite internals and the migration bookkeeping table are not.
func (db *DB) GetDatabaseSchema() (map[string]string, error) {
	rows, err := db.Query(`
		SELECT name, sql
		FROM sqlite_master
		WHERE type IN ('table', 'index', 'trigger')
		  AND name NOT LIKE 'sqlite_%'
		  AND name != 'schema_migrations'
		  AND name != 'version_unique'
		  AND sql IS NOT NULL
		ORDER BY type, name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	defer rows.Close()

	schema := make(map[string]string)
	for rows.Next() {
		var name, createSQL string
		if err := rows.Scan(&name, &createSQL); err != nil {
			return nil, fmt.Errorf("failed to scan schema row: %w", err)
		}
		schema[name] = createSQL
	}
	return schema, rows.Err()
}

// CompareSchemas compares two schemas and returns a similarity score in
// percent along with a list of human-readable differences. The score is the
// share of objects (union of both sides) whose definitions match exactly
// after whitespace normalization.
func CompareSchemas(current, target map[string]string) (int, []string) {
	names := make(map[string]bool)
	for name := range current {
		names[name] = true
	}
	for name := range target {
		names[name] = true
	}
	if len(names) == 0 {
		return 100, nil
	}

	var diffs []string
	matches := 0
	for name := range names {
		cur, inCurrent := current[name]
		tgt, inTarget := target[name]
		switch {
		case !inCurrent:
			diffs = append(diffs, fmt.Sprintf("missing object: %s", name))
		case !inTarget:
			diffs = append(diffs, fmt.Sprintf("unexpected object: %s", name))
		case normalizeSQL(cur) != normalizeSQL(tgt):
			diffs = append(diffs, fmt.Sprintf("definition differs: %s", name))
		default:
			matches++
		}
	}
	sort.Strings(diffs)

	return matches * 100 / len(names), diffs
}

// normalizeSQL collapses whitespace so formatting differences between a live
// schema and a migration file don't count as schema differences.
func normalizeSQL(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// GetSchemaAtMigration reconstructs the schema as it looks after migrating a
// fresh database to the given version. The receiver's own schema is not
// touched; migrations run against a throwaway in-memory database.
func (db *DB) GetSchemaAtMigration(migrations fs.FS, version uint) (map[string]string, error) {
	tmpSQL, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open scratch database: %w", err)
	}
	// The pool must stay on one connection or each statement would see its
	// own empty in-memory database.
	tmpSQL.SetMaxOpenConns(1)

	tmp := &DB{tmpSQL}
	defer tmp.Close()

	if err := tmp.MigrateTo(migrations, version); err != nil {
		return nil, fmt.Errorf("failed to migrate scratch database to version %d: %w", version, err)
	}

	return tmp.GetDatabaseSchema()
}

// DetectSchemaVersion compares this database's schema against the schema at
// every known migration point and reports the best-matching version, its
// similarity score in percent, and the differences against that version.
// Used to adopt legacy databases that predate the schema_migrations table.
func (db *DB) DetectSchemaVersion(migrations fs.FS) (uint, int, []string, error) {
	current, err := db.GetDatabaseSchema()
	if err != nil {
		return 0, 0, nil, err
	}

	latest, err := GetLatestMigrationVersion(migrations)
	if err != nil {
		return 0, 0, nil, err
	}

	var (
		bestVersion uint
		bestScore   = -1
		bestDiffs   []string
	)
	for v := uint(1); v <= latest; v++ {
		target, err := db.GetSchemaAtMigration(migrations, v)
		if err != nil {
			return 0, 0, nil, err
		}
		score, diffs := CompareSchemas(current, target)
		// On ties prefer the later version so an up-to-date legacy
		// database baselines at the latest migration.
		if score >= bestScore {
			bestVersion, bestScore, bestDiffs = v, score, diffs
		}
	}

	return bestVersion, bestScore, bestDiffs, nil
}
