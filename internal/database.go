package internal

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// schemaSQL holds the session store layout: one row per session keyed by id,
// with the full session record as the unit of write, plus a small table for
// scalar application state (the active-session pointer).
const schemaSQL = `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	last_activity INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS app_state (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

// OpenDatabase opens the session database, creating it and its schema if
// needed. Pass ":memory:" for an ephemeral store.
func OpenDatabase(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, &StorageError{Op: "open", Key: path, Err: err}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &StorageError{Op: "open", Key: path, Err: err}
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &StorageError{Op: "open", Key: path, Err: err}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, &StorageError{Op: "open", Key: path, Err: err}
	}

	return db, nil
}
