// Package store persists the curated signal lists and the analysis history
// in SQLite.
package store

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // sqlite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS signal_lists (
	name       TEXT PRIMARY KEY,
	version    INTEGER NOT NULL,
	entries    TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS analysis_history (
	analysis_id    TEXT PRIMARY KEY,
	title          TEXT NOT NULL,
	company        TEXT,
	verdict        TEXT NOT NULL,
	fake_pct       INTEGER NOT NULL,
	real_pct       INTEGER NOT NULL,
	model_fake_pct INTEGER NOT NULL,
	result         TEXT NOT NULL,
	analyzed_at    TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_history_analyzed_at ON analysis_history (analyzed_at);
`

// Open opens (creating if needed) the SQLite database at path and ensures
// the schema exists.
func Open(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}
