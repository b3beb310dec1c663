// Package sqlite stores run history in a local SQLite database.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/githubgphl/startools/internal/history"
	"github.com/githubgphl/startools/internal/log"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	guid        TEXT NOT NULL UNIQUE,
	path        TEXT NOT NULL,
	tokens      INTEGER NOT NULL,
	bad_tokens  INTEGER NOT NULL DEFAULT 0,
	duration_ms REAL NOT NULL,
	counts      TEXT,
	created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

// DB owns the history database connection and its repositories.
type DB struct {
	db   *sql.DB
	runs *runRepository
}

// Open opens or creates the history database at path and applies the schema.
func Open(path string) (*DB, error) {
	log.Debug(log.CatDB, "Opening history database", "path", path)

	db, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("applying history schema: %w", err)
	}

	return &DB{db: db, runs: newRunRepository(db)}, nil
}

// Runs returns the run repository.
func (d *DB) Runs() history.Repository {
	return d.runs
}

// Close releases the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}
