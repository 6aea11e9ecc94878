package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	apperrors "clozesmith/errors"
)

// StyleSeed returns the named seed's content, or "" when none has been
// saved yet.
func (l *Library) StyleSeed(ctx context.Context, name string) (string, error) {
	var content string
	err := l.db.QueryRowContext(ctx,
		`SELECT content FROM style_seeds WHERE name = ?`, name).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", apperrors.WrapError(err, "query style seed")
	}
	return content, nil
}

// SetStyleSeed upserts the named seed.
func (l *Library) SetStyleSeed(ctx context.Context, name, content string) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO style_seeds (name, content, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at`,
		name, content, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return apperrors.WrapError(err, "upsert style seed")
	}
	return nil
}
