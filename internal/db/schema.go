package db

// SchemaSQL is the complete schema for fresh installs.
//
// This is the single source of truth for the database schema. Tests build
// their in-memory databases from GetSchemaSQL() so any repository code that
// references a missing column fails immediately with "no such column".
const SchemaSQL = `
-- Work directories (one per SDK version + DLL content hash)
CREATE TABLE IF NOT EXISTS workdirs (
	id TEXT PRIMARY KEY,
	sdk_version TEXT NOT NULL,
	dll_hash TEXT NOT NULL,
	dll_path TEXT NOT NULL,
	root_path TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('active', 'removed')) DEFAULT 'active',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Run journal (one row per setup/make-patches/apply/build invocation)
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	workdir_id TEXT NOT NULL,
	command TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('ok', 'failed')),
	detail TEXT,
	started_at DATETIME NOT NULL,
	finished_at DATETIME NOT NULL,
	FOREIGN KEY (workdir_id) REFERENCES workdirs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_runs_workdir ON runs(workdir_id, finished_at);
`

// InitSchema brings the database to the current schema version.
func InitSchema() error {
	return RunMigrations()
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
func GetSchemaSQL() string {
	return SchemaSQL
}
