// Package store is the file-backed card library: the user's manual
// corrections (replayed into refine prompts as few-shot examples) and
// named style seeds. One SQLite file, plain CRUD.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS learned_edits (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    card_before TEXT NOT NULL,
    card_after TEXT NOT NULL,
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS style_seeds (
    name TEXT PRIMARY KEY,
    content TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
`

type Library struct {
	db *sql.DB
}

// Open opens (or creates) the library file and applies the schema.
func Open(path string) (*Library, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Library{db: db}, nil
}

func (l *Library) Close() error {
	return l.db.Close()
}
