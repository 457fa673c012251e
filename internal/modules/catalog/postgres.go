package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/georgemunganga/foodcourt-backend/internal/apperr"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const itemSelect = `
	SELECT c.id, c.name, c.description, c.price, c.category, c.image, c.vendor_id, COALESCE(v.name, ''),
	       c.available, c.average_rating, c.rating_count, c.created_at, c.updated_at
	FROM catalog_items c
	LEFT JOIN vendors v ON v.id = c.vendor_id`

func scanItem(scan func(...interface{}) error) (*Item, error) {
	it := &Item{}
	err := scan(&it.ID, &it.Name, &it.Description, &it.Price, &it.Category, &it.Image,
		&it.VendorID, &it.VendorName, &it.Available, &it.AverageRating, &it.RatingCount,
		&it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (r *postgresRepo) Create(ctx context.Context, it *Item) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO catalog_items
		  (id, name, description, price, category, image, vendor_id, available,
		   average_rating, rating_count, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		it.ID, it.Name, it.Description, it.Price, it.Category, it.Image, it.VendorID,
		it.Available, it.AverageRating, it.RatingCount, it.CreatedAt, it.UpdatedAt)
	return apperr.Store(err, apperr.ErrItemNotFound)
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Item, error) {
	it, err := scanItem(r.db.QueryRowContext(ctx, itemSelect+` WHERE c.id=$1`, id).Scan)
	if err != nil {
		return nil, apperr.Store(err, apperr.ErrItemNotFound)
	}
	return it, nil
}

func (r *postgresRepo) GetMany(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Item, error) {
	items := make(map[uuid.UUID]*Item, len(ids))
	if len(ids) == 0 {
		return items, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}
	list, err := r.query(ctx, itemSelect+` WHERE c.id = ANY($1::uuid[])`, pq.Array(keys))
	if err != nil {
		return nil, err
	}
	for _, it := range list {
		items[it.ID] = it
	}
	return items, nil
}

func (r *postgresRepo) List(ctx context.Context, f Filter) ([]*Item, error) {
	query := itemSelect + ` WHERE 1=1`
	args := []interface{}{}
	n := 1
	if f.VendorID != uuid.Nil {
		query += fmt.Sprintf(` AND c.vendor_id=$%d`, n)
		args = append(args, f.VendorID)
		n++
	}
	if f.Category != "" {
		query += fmt.Sprintf(` AND c.category=$%d`, n)
		args = append(args, f.Category)
		n++
	}
	if f.AvailableOnly {
		query += ` AND c.available=true`
	}
	query += ` ORDER BY c.created_at DESC`
	return r.query(ctx, query, args...)
}

func (r *postgresRepo) Update(ctx context.Context, it *Item) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE catalog_items
		SET name=$1, description=$2, price=$3, category=$4, image=$5, vendor_id=$6, updated_at=NOW()
		WHERE id=$7`,
		it.Name, it.Description, it.Price, it.Category, it.Image, it.VendorID, it.ID)
	return affected(res, err)
}

func (r *postgresRepo) SetAvailable(ctx context.Context, id uuid.UUID, available bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE catalog_items SET available=$1, updated_at=NOW() WHERE id=$2`, available, id)
	return affected(res, err)
}

func (r *postgresRepo) UpdateRating(ctx context.Context, id uuid.UUID, average float64, count int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE catalog_items SET average_rating=$1, rating_count=$2 WHERE id=$3`, average, count, id)
	return affected(res, err)
}

func (r *postgresRepo) ListItemIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM catalog_items ORDER BY id`)
	if err != nil {
		return nil, apperr.Store(err, apperr.ErrItemNotFound)
	}
	defer rows.Close()
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, apperr.Store(err, apperr.ErrItemNotFound)
		}
		ids = append(ids, id)
	}
	return ids, apperr.Store(rows.Err(), apperr.ErrItemNotFound)
}

// ── helpers ──────────────────────────────────────────────────────────────────

func (r *postgresRepo) query(ctx context.Context, query string, args ...interface{}) ([]*Item, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Store(err, apperr.ErrItemNotFound)
	}
	defer rows.Close()
	var items []*Item
	for rows.Next() {
		it, err := scanItem(rows.Scan)
		if err != nil {
			return nil, apperr.Store(err, apperr.ErrItemNotFound)
		}
		items = append(items, it)
	}
	return items, apperr.Store(rows.Err(), apperr.ErrItemNotFound)
}

func affected(res sql.Result, err error) error {
	if err != nil {
		return apperr.Store(err, apperr.ErrItemNotFound)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrItemNotFound
	}
	return nil
}
