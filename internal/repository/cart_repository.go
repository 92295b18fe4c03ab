package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/afrobites/shop-backend/internal/model"
)

// CartRepo provides CRUD operations for cart lines. A line is keyed by its
// owner (customer_id once authenticated, session_key while anonymous) and a
// product id. The cart_lines table carries unique keys on
// (customer_id, product_id) and (session_key, product_id), so adding a
// product an owner already has collapses into a single-row quantity
// increment instead of a duplicate line, even under concurrent first-adds.
type CartRepo struct {
	db *sql.DB
}

// NewCartRepo returns a CartRepo bound to the given database.
func NewCartRepo(db *sql.DB) *CartRepo { return &CartRepo{db: db} }

// DB exposes the underlying handle for callers that manage their own
// transactions.
func (r *CartRepo) DB() *sql.DB { return r.db }

const (
	cartUpsertCustomer = `INSERT INTO cart_lines (customer_id, session_key, product_id, quantity, unit_price_cents)
               VALUES (?, NULL, ?, ?, ?)
               ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity)`
	cartUpsertGuest = `INSERT INTO cart_lines (customer_id, session_key, product_id, quantity, unit_price_cents)
               VALUES (NULL, ?, ?, ?, ?)
               ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity)`
)

// Add inserts a cart line or, when the owner already has the product,
// increments its quantity by qty. unitPriceCents is stored only on the
// insert path: the increment branch deliberately leaves the existing
// snapshot untouched so the price captured at first add survives later
// catalog changes.
func (r *CartRepo) Add(ctx context.Context, owner model.Owner, productID uint64, qty int, unitPriceCents int64) error {
	if owner.IsCustomer() {
		_, err := r.db.ExecContext(ctx, cartUpsertCustomer, owner.CustomerID(), productID, qty, unitPriceCents)
		return err
	}
	_, err := r.db.ExecContext(ctx, cartUpsertGuest, owner.SessionKey(), productID, qty, unitPriceCents)
	return err
}

// UpdateQuantity sets the quantity of a single line. It returns false when
// no line with the given id exists; an unknown id is a reportable failure
// for the caller, not an error. A no-change update (same quantity) is
// still reported as found.
func (r *CartRepo) UpdateQuantity(ctx context.Context, lineID uint64, qty int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE cart_lines SET quantity = ? WHERE id = ?`, qty, lineID)
	if err != nil {
		return false, err
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return true, nil
	}
	// MySQL reports zero affected rows for a same-value update, so fall back
	// to an existence check before declaring the line missing.
	var id uint64
	err = r.db.QueryRowContext(ctx, `SELECT id FROM cart_lines WHERE id = ? LIMIT 1`, lineID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Remove deletes a line unconditionally. Removing a line that does not
// exist is not an error; the operation is idempotent.
func (r *CartRepo) Remove(ctx context.Context, lineID uint64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_lines WHERE id = ?`, lineID)
	return err
}

const (
	cartListCustomer = `SELECT c.id, c.product_id, c.quantity, c.unit_price_cents, c.added_at, p.title, p.image
               FROM cart_lines c
               LEFT JOIN products p ON p.id = c.product_id
               WHERE c.customer_id = ? OR c.session_key = ?
               ORDER BY c.added_at DESC, c.id DESC`
	cartListGuest = `SELECT c.id, c.product_id, c.quantity, c.unit_price_cents, c.added_at, p.title, p.image
               FROM cart_lines c
               LEFT JOIN products p ON p.id = c.product_id
               WHERE c.session_key = ?
               ORDER BY c.added_at DESC, c.id DESC`
)

// ListByOwner returns the owner's cart lines joined with product display
// fields, most recently added first. For a customer the result is the union
// of lines under their customer id and lines still under their current
// session key, so items added just before login remain visible while the
// merge is pending. A line may transiently surface under both keys during
// that window; callers tolerate at-least-once visibility there.
func (r *CartRepo) ListByOwner(ctx context.Context, owner model.Owner) ([]model.CartItemView, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if owner.IsCustomer() {
		rows, err = r.db.QueryContext(ctx, cartListCustomer, owner.CustomerID(), owner.SessionKey())
	} else {
		rows, err = r.db.QueryContext(ctx, cartListGuest, owner.SessionKey())
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.CartItemView, 0)
	for rows.Next() {
		var (
			it    model.CartItemView
			added time.Time
			title sql.NullString
			image sql.NullString
		)
		if err := rows.Scan(&it.ID, &it.ProductID, &it.Quantity, &it.UnitPriceCents, &added, &title, &image); err != nil {
			return nil, err
		}
		it.AddedAt = added
		it.Title = title.String
		if image.Valid {
			img := image.String
			it.Image = &img
		}
		it.SubtotalCents = it.UnitPriceCents * int64(it.Quantity)
		it.UnitPrice = model.FormatCents(it.UnitPriceCents)
		it.Subtotal = model.FormatCents(it.SubtotalCents)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Clear deletes every line belonging to the owner. For a customer both
// keys are covered, matching the union that ListByOwner exposes.
func (r *CartRepo) Clear(ctx context.Context, owner model.Owner) error {
	if owner.IsCustomer() {
		_, err := r.db.ExecContext(ctx,
			`DELETE FROM cart_lines WHERE customer_id = ? OR session_key = ?`,
			owner.CustomerID(), owner.SessionKey())
		return err
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_lines WHERE session_key = ?`, owner.SessionKey())
	return err
}

const cartClaimForUpdate = `SELECT id, product_id, quantity, unit_price_cents
               FROM cart_lines
               WHERE customer_id = ? OR session_key = ?
               ORDER BY added_at DESC, id DESC
               FOR UPDATE`

// ListForUpdateTx reads and row-locks the customer's cart lines inside the
// caller's transaction. Checkout uses this as its claim step: a concurrent
// checkout for the same customer blocks here until the first commits, then
// observes the cleared cart. The predicate matches ListByOwner's union so
// the set charged is exactly the set the shopper saw.
func (r *CartRepo) ListForUpdateTx(ctx context.Context, tx *sql.Tx, customerID uint64, sessionKey string) ([]model.CartLine, error) {
	rows, err := tx.QueryContext(ctx, cartClaimForUpdate, customerID, sessionKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []model.CartLine
	for rows.Next() {
		var ln model.CartLine
		if err := rows.Scan(&ln.ID, &ln.ProductID, &ln.Quantity, &ln.UnitPriceCents); err != nil {
			return nil, err
		}
		lines = append(lines, ln)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// ClearTx deletes the customer's cart lines (both owner keys) within the
// caller's transaction.
func (r *CartRepo) ClearTx(ctx context.Context, tx *sql.Tx, customerID uint64, sessionKey string) error {
	_, err := tx.ExecContext(ctx,
		`DELETE FROM cart_lines WHERE customer_id = ? OR session_key = ?`,
		customerID, sessionKey)
	return err
}
