// Package sqlite_test contains integration tests for SQLite repositories.
//
// This file is the single point where the database schema is loaded for
// tests. All test setup uses db.GetSchemaSQL() so tests run against the
// authoritative schema, preventing drift between test and production.
package sqlite_test

import (
	"database/sql"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Amrsatrio/WrlXaml/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedWorkdir inserts a test work directory and returns its ID. The
// version and hash columns are derived from the ID so ordering assertions
// see distinct values.
func seedWorkdir(t *testing.T, db *sql.DB, id string) string {
	t.Helper()
	if id == "" {
		id = "10.0.19041.0/a1b2c3d4e5f60718"
	}
	version, hash, ok := strings.Cut(id, "/")
	if !ok {
		t.Fatalf("seedWorkdir id %q is not <version>/<hash>", id)
	}
	_, err := db.Exec(
		"INSERT INTO workdirs (id, sdk_version, dll_hash, dll_path, root_path, status) VALUES (?, ?, ?, 'C:/kits/tasks.dll', '/tmp/proj', 'active')",
		id, version, hash,
	)
	if err != nil {
		t.Fatalf("failed to seed workdir: %v", err)
	}
	return id
}

// seedRun inserts a test run and returns its ID.
func seedRun(t *testing.T, db *sql.DB, id, workdirID, command, finishedAt string) string {
	t.Helper()
	if id == "" {
		id = "run-001"
	}
	if command == "" {
		command = "setup"
	}
	if finishedAt == "" {
		finishedAt = "2026-01-02 15:04:05"
	}
	_, err := db.Exec(
		"INSERT INTO runs (id, workdir_id, command, status, started_at, finished_at) VALUES (?, ?, ?, 'ok', '2026-01-02 15:00:00', ?)",
		id, workdirID, command, finishedAt,
	)
	if err != nil {
		t.Fatalf("failed to seed run: %v", err)
	}
	return id
}
