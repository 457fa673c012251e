package feedback

import (
	"context"
	"database/sql"
	"errors"

	"github.com/georgemunganga/foodcourt-backend/internal/apperr"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const feedbackColumns = `id, user_id, order_id, item_id, item_name, vendor_id, rating, text, photos, created_at`

// Create relies on the unique index over (user_id, order_id, item_id) to
// close the race between two concurrent submissions.
func (r *postgresRepo) Create(ctx context.Context, f *Feedback) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO feedback (`+feedbackColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		f.ID, f.UserID, f.OrderID, f.ItemID, f.ItemName, f.VendorID,
		f.Rating, f.Text, pq.Array(f.Photos), f.CreatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return apperr.ErrDuplicateFeedback
	}
	return apperr.Store(err, apperr.ErrNotFound)
}

func (r *postgresRepo) Exists(ctx context.Context, userID string, orderID, itemID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM feedback WHERE user_id=$1 AND order_id=$2 AND item_id=$3)`,
		userID, orderID, itemID).Scan(&exists)
	if err != nil {
		return false, apperr.Store(err, apperr.ErrNotFound)
	}
	return exists, nil
}

func (r *postgresRepo) ListByItem(ctx context.Context, itemID uuid.UUID) ([]*Feedback, error) {
	return r.query(ctx, `SELECT `+feedbackColumns+` FROM feedback WHERE item_id=$1 ORDER BY created_at DESC`, itemID)
}

func (r *postgresRepo) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]*Feedback, error) {
	return r.query(ctx, `SELECT `+feedbackColumns+` FROM feedback WHERE vendor_id=$1 ORDER BY created_at DESC`, vendorID)
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]*Feedback, error) {
	return r.query(ctx, `SELECT `+feedbackColumns+` FROM feedback WHERE user_id=$1 ORDER BY created_at DESC`, userID)
}

func (r *postgresRepo) Stats(ctx context.Context, itemID uuid.UUID) (int64, int64, error) {
	var sum, count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(rating), 0), COUNT(*) FROM feedback WHERE item_id=$1`, itemID).Scan(&sum, &count)
	if err != nil {
		return 0, 0, apperr.Store(err, apperr.ErrNotFound)
	}
	return sum, count, nil
}

func (r *postgresRepo) query(ctx context.Context, q string, arg interface{}) ([]*Feedback, error) {
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, apperr.Store(err, apperr.ErrNotFound)
	}
	defer rows.Close()

	out := []*Feedback{}
	for rows.Next() {
		f := &Feedback{}
		var text sql.NullString
		if err := rows.Scan(&f.ID, &f.UserID, &f.OrderID, &f.ItemID, &f.ItemName, &f.VendorID,
			&f.Rating, &text, pq.Array(&f.Photos), &f.CreatedAt); err != nil {
			return nil, apperr.Store(err, apperr.ErrNotFound)
		}
		f.Text = text.String
		out = append(out, f)
	}
	return out, apperr.Store(rows.Err(), apperr.ErrNotFound)
}
