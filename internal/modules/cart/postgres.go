package cart

import (
	"context"
	"database/sql"

	"github.com/georgemunganga/foodcourt-backend/internal/apperr"
	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Add(ctx context.Context, userID string, itemID uuid.UUID, quantity int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cart_items (user_id, item_id, quantity) VALUES ($1, $2, $3)
		ON CONFLICT (user_id, item_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`,
		userID, itemID, quantity)
	return apperr.Store(err, apperr.ErrNotFound)
}

func (r *postgresRepo) Remove(ctx context.Context, userID string, itemID uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Store(err, apperr.ErrNotFound)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE cart_items SET quantity = quantity - 1 WHERE user_id=$1 AND item_id=$2`, userID, itemID); err != nil {
		return apperr.Store(err, apperr.ErrNotFound)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id=$1 AND item_id=$2 AND quantity <= 0`, userID, itemID); err != nil {
		return apperr.Store(err, apperr.ErrNotFound)
	}
	return apperr.Store(tx.Commit(), apperr.ErrNotFound)
}

func (r *postgresRepo) Get(ctx context.Context, userID string) (map[uuid.UUID]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT item_id, quantity FROM cart_items WHERE user_id=$1`, userID)
	if err != nil {
		return nil, apperr.Store(err, apperr.ErrNotFound)
	}
	defer rows.Close()
	out := make(map[uuid.UUID]int)
	for rows.Next() {
		var id uuid.UUID
		var q int
		if err := rows.Scan(&id, &q); err != nil {
			return nil, apperr.Store(err, apperr.ErrNotFound)
		}
		out[id] = q
	}
	return out, apperr.Store(rows.Err(), apperr.ErrNotFound)
}

func (r *postgresRepo) Clear(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id=$1`, userID)
	return apperr.Store(err, apperr.ErrNotFound)
}
