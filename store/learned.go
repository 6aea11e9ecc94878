package store

import (
	"context"
	"time"

	apperrors "clozesmith/errors"
)

// LearnedEdit is one manual correction: the card as the pipeline
// produced it and the card as the user fixed it.
type LearnedEdit struct {
	ID         int64
	CardBefore string
	CardAfter  string
	CreatedAt  time.Time
}

func (l *Library) AddLearnedEdit(ctx context.Context, before, after string) (int64, error) {
	res, err := l.db.ExecContext(ctx,
		`INSERT INTO learned_edits (card_before, card_after, created_at) VALUES (?, ?, ?)`,
		before, after, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, apperrors.WrapError(err, "insert learned edit")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, apperrors.WrapError(err, "learned edit id")
	}
	return id, nil
}

// RecentLearnedEdits returns up to limit edits, newest first.
func (l *Library) RecentLearnedEdits(ctx context.Context, limit int) ([]LearnedEdit, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, card_before, card_after, created_at FROM learned_edits ORDER BY id DESC LIMIT ?`,
		limit)
	if err != nil {
		return nil, apperrors.WrapError(err, "query learned edits")
	}
	defer rows.Close()

	var edits []LearnedEdit
	for rows.Next() {
		var e LearnedEdit
		var created string
		if err := rows.Scan(&e.ID, &e.CardBefore, &e.CardAfter, &created); err != nil {
			return nil, apperrors.WrapError(err, "scan learned edit")
		}
		if t, perr := time.Parse(time.RFC3339Nano, created); perr == nil {
			e.CreatedAt = t
		}
		edits = append(edits, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.WrapError(err, "iterate learned edits")
	}
	return edits, nil
}

func (l *Library) DeleteLearnedEdit(ctx context.Context, id int64) error {
	res, err := l.db.ExecContext(ctx, `DELETE FROM learned_edits WHERE id = ?`, id)
	if err != nil {
		return apperrors.WrapError(err, "delete learned edit")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.WrapError(err, "delete learned edit rows")
	}
	if n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
