package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/georgemunganga/foodcourt-backend/internal/apperr"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const orderColumns = `id, user_id, amount, address, overall_status, delivered_at, paid, created_at, updated_at`

// CreateOrder inserts the order, its items and its vendor entries inside a single transaction.
func (r *postgresRepo) CreateOrder(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Store(err, apperr.ErrOrderNotFound)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		o.ID, o.UserID, o.Amount, nullableJSON(o.Address), o.OverallStatus,
		o.DeliveredAt, o.Paid, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return apperr.Store(fmt.Errorf("insert order: %w", err), apperr.ErrOrderNotFound)
	}

	for i, it := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items
			  (order_id, position, item_id, name, price, quantity, vendor_id, vendor_name)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			o.ID, i, it.ItemID, it.Name, it.Price, it.Quantity, it.VendorID, it.VendorName)
		if err != nil {
			return apperr.Store(fmt.Errorf("insert order_item: %w", err), apperr.ErrOrderNotFound)
		}
	}

	for i, e := range o.Vendors {
		if err := upsertVendor(ctx, tx, o.ID, i, e); err != nil {
			return err
		}
	}

	return apperr.Store(tx.Commit(), apperr.ErrOrderNotFound)
}

func (r *postgresRepo) GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id).Scan)
	if err != nil {
		return nil, apperr.Store(err, apperr.ErrOrderNotFound)
	}
	if err := loadChildren(ctx, r.db, []*Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) ListOrdersByCustomer(ctx context.Context, userID string) ([]*Order, error) {
	return r.queryOrders(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE user_id=$1 ORDER BY created_at DESC`, userID)
}

func (r *postgresRepo) ListOrdersByVendor(ctx context.Context, vendorID uuid.UUID, itemIDs []uuid.UUID) ([]*Order, error) {
	return r.queryOrders(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE id IN (
		      SELECT order_id FROM order_vendors WHERE vendor_id=$1
		      UNION
		      SELECT order_id FROM order_items WHERE vendor_id=$1 OR item_id = ANY($2::uuid[]))
		ORDER BY created_at DESC`, vendorID, pq.Array(uuidStrings(itemIDs)))
}

func (r *postgresRepo) ListOrders(ctx context.Context) ([]*Order, error) {
	return r.queryOrders(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

// MutateVendors locks the order row, so mutations of one order serialise
// while different orders proceed in parallel. Only the vendor rows fn touched
// are written, and the overall status is derived from the rows as they are
// after the change, inside the same transaction.
func (r *postgresRepo) MutateVendors(ctx context.Context, id uuid.UUID, fn VendorMutation) (*Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperr.Store(err, apperr.ErrOrderNotFound)
	}
	defer tx.Rollback()

	o, err := scanOrder(tx.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id=$1 FOR UPDATE`, id).Scan)
	if err != nil {
		return nil, apperr.Store(err, apperr.ErrOrderNotFound)
	}
	if err := loadChildren(ctx, tx, []*Order{o}); err != nil {
		return nil, err
	}

	changed, err := fn(o)
	if err != nil {
		return nil, err
	}
	for _, vid := range changed {
		for i, e := range o.Vendors {
			if e.VendorID == vid {
				if err := upsertVendor(ctx, tx, o.ID, i, e); err != nil {
					return nil, err
				}
			}
		}
	}

	refreshOverall(o)
	o.UpdatedAt = time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		`UPDATE orders SET overall_status=$1, delivered_at=$2, updated_at=$3 WHERE id=$4`,
		o.OverallStatus, o.DeliveredAt, o.UpdatedAt, o.ID)
	if err != nil {
		return nil, apperr.Store(err, apperr.ErrOrderNotFound)
	}
	if err := tx.Commit(); err != nil {
		return nil, apperr.Store(err, apperr.ErrOrderNotFound)
	}
	return o, nil
}

func (r *postgresRepo) MarkPaid(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET paid=true, updated_at=$1 WHERE id=$2`, time.Now().UTC(), id)
	return affected(res, err)
}

// DeleteOrder relies on ON DELETE CASCADE for items and vendor entries.
func (r *postgresRepo) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id=$1`, id)
	return affected(res, err)
}

// ── helpers ──────────────────────────────────────────────────────────────────

func upsertVendor(ctx context.Context, q querier, orderID uuid.UUID, position int, e *VendorEntry) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO order_vendors (order_id, vendor_id, vendor_name, status, delivered_at, position)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (order_id, vendor_id)
		DO UPDATE SET status=EXCLUDED.status, delivered_at=EXCLUDED.delivered_at`,
		orderID, e.VendorID, e.VendorName, e.Status, e.DeliveredAt, position)
	if err != nil {
		return apperr.Store(fmt.Errorf("upsert order_vendor: %w", err), apperr.ErrOrderNotFound)
	}
	return nil
}

func scanOrder(scan func(...interface{}) error) (*Order, error) {
	o := &Order{}
	var address []byte
	var deliveredAt sql.NullTime
	err := scan(&o.ID, &o.UserID, &o.Amount, &address, &o.OverallStatus,
		&deliveredAt, &o.Paid, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(address) > 0 {
		o.Address = json.RawMessage(address)
	}
	if deliveredAt.Valid {
		o.DeliveredAt = &deliveredAt.Time
	}
	return o, nil
}

func (r *postgresRepo) queryOrders(ctx context.Context, query string, args ...interface{}) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Store(err, apperr.ErrOrderNotFound)
	}
	defer rows.Close()
	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, apperr.Store(err, apperr.ErrOrderNotFound)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store(err, apperr.ErrOrderNotFound)
	}
	if err := loadChildren(ctx, r.db, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// loadChildren fills Items and Vendors for all orders with two queries.
func loadChildren(ctx context.Context, q querier, orders []*Order) error {
	if len(orders) == 0 {
		return nil
	}
	byID := make(map[uuid.UUID]*Order, len(orders))
	ids := make([]string, len(orders))
	for i, o := range orders {
		byID[o.ID] = o
		ids[i] = o.ID.String()
		o.Items = []*OrderItem{}
		o.Vendors = []*VendorEntry{}
	}

	rows, err := q.QueryContext(ctx, `
		SELECT order_id, item_id, name, price, quantity, vendor_id, vendor_name
		FROM order_items WHERE order_id = ANY($1::uuid[]) ORDER BY order_id, position`, pq.Array(ids))
	if err != nil {
		return apperr.Store(err, apperr.ErrOrderNotFound)
	}
	for rows.Next() {
		var orderID uuid.UUID
		it := &OrderItem{}
		if err := rows.Scan(&orderID, &it.ItemID, &it.Name, &it.Price, &it.Quantity, &it.VendorID, &it.VendorName); err != nil {
			rows.Close()
			return apperr.Store(err, apperr.ErrOrderNotFound)
		}
		if o := byID[orderID]; o != nil {
			o.Items = append(o.Items, it)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return apperr.Store(err, apperr.ErrOrderNotFound)
	}

	rows, err = q.QueryContext(ctx, `
		SELECT order_id, vendor_id, vendor_name, status, delivered_at
		FROM order_vendors WHERE order_id = ANY($1::uuid[]) ORDER BY order_id, position`, pq.Array(ids))
	if err != nil {
		return apperr.Store(err, apperr.ErrOrderNotFound)
	}
	defer rows.Close()
	for rows.Next() {
		var orderID uuid.UUID
		var deliveredAt sql.NullTime
		e := &VendorEntry{}
		if err := rows.Scan(&orderID, &e.VendorID, &e.VendorName, &e.Status, &deliveredAt); err != nil {
			return apperr.Store(err, apperr.ErrOrderNotFound)
		}
		if deliveredAt.Valid {
			t := deliveredAt.Time
			e.DeliveredAt = &t
		}
		if o := byID[orderID]; o != nil {
			o.Vendors = append(o.Vendors, e)
		}
	}
	return apperr.Store(rows.Err(), apperr.ErrOrderNotFound)
}

func affected(res sql.Result, err error) error {
	if err != nil {
		return apperr.Store(err, apperr.ErrOrderNotFound)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrOrderNotFound
	}
	return nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func nullableJSON(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return b
}
