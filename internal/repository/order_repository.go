package repository

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"strings"
	"time"

	"github.com/afrobites/shop-backend/internal/model"
)

// OrderRepo provides persistence for orders, their line snapshots and
// payment records. The three tables are written together during checkout
// inside a transaction held by the caller, which must commit or roll back.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo returns an OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// DB exposes the underlying handle for callers that manage their own
// transactions.
func (r *OrderRepo) DB() *sql.DB { return r.db }

// OrderRecord mirrors the orders table for insertion. CreateTx populates
// ID and OrderRef on the provided record.
type OrderRecord struct {
	ID               uint64
	OrderRef         string
	CustomerID       uint64
	TotalAmountCents int64
	Status           string
	IdempotencyKey   *string
	CreatedAt        time.Time
}

// OrderLineRecord mirrors the order_lines table for insertion.
type OrderLineRecord struct {
	OrderID        uint64
	ProductID      uint64
	UnitPriceCents int64
	Quantity       int
	SubtotalCents  int64
}

// NewOrderRef builds an externally shown order reference: a date stamp plus
// a random 6-char upper-hex suffix, e.g. ORDER-20260901-3FA9C1. Uniqueness
// rides on the suffix entropy; the column is not uniqueness-checked-and-
// retried.
func NewOrderRef() (string, error) {
	suffix, err := randomRef(3)
	if err != nil {
		return "", err
	}
	return "ORDER-" + time.Now().UTC().Format("20060102") + "-" + suffix, nil
}

// NewPaymentRef builds a payment reference with an 8-char upper-hex suffix.
func NewPaymentRef() (string, error) {
	suffix, err := randomRef(4)
	if err != nil {
		return "", err
	}
	return "PAY-" + suffix, nil
}

func randomRef(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}

// CreateTx inserts a new order within the scope of an existing transaction,
// generating its order_ref. It populates ID and OrderRef on the record.
// A duplicate idempotency key surfaces as a 1062 error recognizable via
// IsDuplicate.
func (r *OrderRepo) CreateTx(ctx context.Context, tx *sql.Tx, rec *OrderRecord) error {
	ref, err := NewOrderRef()
	if err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO orders (order_ref, customer_id, total_amount_cents, status, idempotency_key) VALUES (?, ?, ?, ?, ?)`,
		ref, rec.CustomerID, rec.TotalAmountCents, rec.Status, rec.IdempotencyKey)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = uint64(id)
	rec.OrderRef = ref
	return nil
}

// AddLinesBulkTx inserts all order lines in a single statement within the
// provided transaction. Passing an empty slice has no effect.
func (r *OrderRepo) AddLinesBulkTx(ctx context.Context, tx *sql.Tx, lines []OrderLineRecord) error {
	if len(lines) == 0 {
		return nil
	}
	query := `INSERT INTO order_lines (order_id, product_id, unit_price_cents, quantity, subtotal_cents) VALUES `
	args := make([]interface{}, 0, len(lines)*5)
	for i, ln := range lines {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, ln.OrderID, ln.ProductID, ln.UnitPriceCents, ln.Quantity, ln.SubtotalCents)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// RecordPaymentTx writes the simulated payment row for an order within the
// provided transaction and returns the generated payment reference.
// Checkout is not complete until this row exists.
func (r *OrderRepo) RecordPaymentTx(ctx context.Context, tx *sql.Tx, orderID uint64, amountCents int64) (string, error) {
	ref, err := NewPaymentRef()
	if err != nil {
		return "", err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO payments (order_id, payment_method, amount_cents, payment_ref, status) VALUES (?, ?, ?, ?, ?)`,
		orderID, model.PaymentMethodSimulated, amountCents, ref, model.PaymentStatusSuccess)
	if err != nil {
		return "", err
	}
	return ref, nil
}

// FindByIdempotencyKey returns the order previously created for the given
// customer and checkout attempt key, or sql.ErrNoRows.
func (r *OrderRepo) FindByIdempotencyKey(ctx context.Context, customerID uint64, key string) (model.Order, error) {
	var o model.Order
	err := r.db.QueryRowContext(ctx,
		`SELECT id, order_ref, customer_id, total_amount_cents, status, created_at
               FROM orders WHERE customer_id = ? AND idempotency_key = ? LIMIT 1`,
		customerID, key).Scan(&o.ID, &o.OrderRef, &o.CustomerID, &o.TotalAmountCents, &o.Status, &o.CreatedAt)
	return o, err
}

// ListByCustomer returns the customer's orders, newest first.
func (r *OrderRepo) ListByCustomer(ctx context.Context, customerID uint64) ([]model.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, order_ref, customer_id, total_amount_cents, status, created_at
               FROM orders WHERE customer_id = ? ORDER BY created_at DESC, id DESC`,
		customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]model.Order, 0)
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.OrderRef, &o.CustomerID, &o.TotalAmountCents, &o.Status, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetByRefForCustomer loads one order with its lines and payment, enforcing
// ownership by the calling customer. Returns sql.ErrNoRows when the order
// does not exist or belongs to someone else.
func (r *OrderRepo) GetByRefForCustomer(ctx context.Context, orderRef string, customerID uint64) (*model.OrderDetail, error) {
	var det model.OrderDetail
	err := r.db.QueryRowContext(ctx,
		`SELECT id, order_ref, customer_id, total_amount_cents, status, created_at
               FROM orders WHERE order_ref = ? AND customer_id = ? LIMIT 1`,
		orderRef, customerID).Scan(
		&det.Order.ID, &det.Order.OrderRef, &det.Order.CustomerID,
		&det.Order.TotalAmountCents, &det.Order.Status, &det.Order.CreatedAt)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, order_id, product_id, unit_price_cents, quantity, subtotal_cents
               FROM order_lines WHERE order_id = ? ORDER BY id`,
		det.Order.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	det.Lines = make([]model.OrderLine, 0)
	for rows.Next() {
		var ln model.OrderLine
		if err := rows.Scan(&ln.ID, &ln.OrderID, &ln.ProductID, &ln.UnitPriceCents, &ln.Quantity, &ln.SubtotalCents); err != nil {
			return nil, err
		}
		det.Lines = append(det.Lines, ln)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var p model.Payment
	err = r.db.QueryRowContext(ctx,
		`SELECT id, order_id, payment_method, amount_cents, payment_ref, status, created_at
               FROM payments WHERE order_id = ? LIMIT 1`,
		det.Order.ID).Scan(&p.ID, &p.OrderID, &p.Method, &p.AmountCents, &p.PaymentRef, &p.Status, &p.CreatedAt)
	if err == nil {
		det.Payment = &p
	} else if err != sql.ErrNoRows {
		return nil, err
	}
	return &det, nil
}
