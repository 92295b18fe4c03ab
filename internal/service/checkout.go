package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/afrobites/shop-backend/internal/model"
	"github.com/afrobites/shop-backend/internal/queue"
	"github.com/afrobites/shop-backend/internal/repository"
)

// EventPublisher pushes an order-confirmed event to the message broker.
// Publishing happens after commit and is best-effort.
type EventPublisher interface {
	PublishOrderConfirmed(ctx context.Context, evt queue.OrderConfirmedEvent) error
}

// CheckoutResult reports the outcome of a completed checkout. Replayed is
// true when the idempotency key matched a previous order, in which case
// that order's data is returned instead of creating a new one.
type CheckoutResult struct {
	OrderID    uint64
	OrderRef   string
	TotalCents int64
	Replayed   bool
}

// CheckoutService converts a customer's cart into a confirmed order with a
// simulated payment. The whole conversion runs inside a single database
// transaction: the cart lines are claimed with a row lock, the order,
// order lines and payment are written, and the cart is cleared. Any failure
// rolls the transaction back, leaving both the cart and the order tables
// untouched.
type CheckoutService struct {
	db        *sql.DB
	carts     *repository.CartRepo
	orders    *repository.OrderRepo
	publisher EventPublisher
	log       *zap.Logger
}

// NewCheckoutService constructs a CheckoutService. publisher and log may be
// nil; a nil publisher disables event publishing.
func NewCheckoutService(db *sql.DB, carts *repository.CartRepo, orders *repository.OrderRepo, publisher EventPublisher, log *zap.Logger) *CheckoutService {
	if db == nil || carts == nil || orders == nil {
		panic("nil dependency passed to NewCheckoutService")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CheckoutService{db: db, carts: carts, orders: orders, publisher: publisher, log: log}
}

// Checkout places an order for everything in the customer's cart, charging
// the snapshot prices recorded when the items were added. idemKey, when
// non-empty, makes the call idempotent: repeating a checkout with the same
// key returns the already created order instead of placing a second one.
func (s *CheckoutService) Checkout(ctx context.Context, customerID uint64, sessionKey, idemKey string) (CheckoutResult, error) {
	if idemKey != "" {
		if prev, err := s.orders.FindByIdempotencyKey(ctx, customerID, idemKey); err == nil {
			return CheckoutResult{OrderID: prev.ID, OrderRef: prev.OrderRef, TotalCents: prev.TotalAmountCents, Replayed: true}, nil
		} else if !errors.Is(err, sql.ErrNoRows) {
			return CheckoutResult{}, ErrOrderCreate
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return CheckoutResult{}, ErrStoreUnavailable
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Locking the cart rows serializes concurrent checkouts of the same
	// cart: the second transaction blocks here, then sees an empty cart.
	lines, err := s.carts.ListForUpdateTx(ctx, tx, customerID, sessionKey)
	if err != nil {
		return CheckoutResult{}, ErrStoreUnavailable
	}
	if len(lines) == 0 {
		return CheckoutResult{}, ErrEmptyCart
	}

	var total int64
	orderLines := make([]repository.OrderLineRecord, 0, len(lines))
	for _, ln := range lines {
		subtotal := ln.UnitPriceCents * int64(ln.Quantity)
		total += subtotal
		orderLines = append(orderLines, repository.OrderLineRecord{
			ProductID:      ln.ProductID,
			UnitPriceCents: ln.UnitPriceCents,
			Quantity:       ln.Quantity,
			SubtotalCents:  subtotal,
		})
	}

	rec := repository.OrderRecord{
		CustomerID:       customerID,
		TotalAmountCents: total,
		Status:           model.OrderStatusConfirmed,
	}
	if idemKey != "" {
		rec.IdempotencyKey = &idemKey
	}
	if err := s.orders.CreateTx(ctx, tx, &rec); err != nil {
		if idemKey != "" && repository.IsDuplicate(err) {
			// Lost the race against a concurrent request carrying the
			// same key. Its order is the one to return.
			_ = tx.Rollback()
			committed = true
			if prev, ferr := s.orders.FindByIdempotencyKey(ctx, customerID, idemKey); ferr == nil {
				return CheckoutResult{OrderID: prev.ID, OrderRef: prev.OrderRef, TotalCents: prev.TotalAmountCents, Replayed: true}, nil
			}
		}
		s.log.Error("order insert failed", zap.Uint64("customer_id", customerID), zap.Error(err))
		return CheckoutResult{}, ErrOrderCreate
	}
	for i := range orderLines {
		orderLines[i].OrderID = rec.ID
	}
	if err := s.orders.AddLinesBulkTx(ctx, tx, orderLines); err != nil {
		s.log.Error("order lines insert failed", zap.Uint64("order_id", rec.ID), zap.Error(err))
		return CheckoutResult{}, ErrOrderDetails
	}
	if _, err := s.orders.RecordPaymentTx(ctx, tx, rec.ID, total); err != nil {
		s.log.Error("payment record failed", zap.Uint64("order_id", rec.ID), zap.Error(err))
		return CheckoutResult{}, ErrPayment
	}
	if err := s.carts.ClearTx(ctx, tx, customerID, sessionKey); err != nil {
		s.log.Error("cart clear failed", zap.Uint64("order_id", rec.ID), zap.Error(err))
		return CheckoutResult{}, ErrStoreUnavailable
	}
	if err := tx.Commit(); err != nil {
		return CheckoutResult{}, ErrStoreUnavailable
	}
	committed = true

	s.log.Info("checkout complete",
		zap.Uint64("customer_id", customerID),
		zap.Uint64("order_id", rec.ID),
		zap.String("order_ref", rec.OrderRef),
		zap.Int64("total_cents", total))

	if s.publisher != nil {
		evt := queue.OrderConfirmedEvent{
			EventID:    uuid.NewString(),
			OrderID:    rec.ID,
			OrderRef:   rec.OrderRef,
			CustomerID: customerID,
			TotalCents: total,
			CreatedAt:  time.Now().UTC(),
			Lines:      make([]queue.OrderLineEvent, 0, len(orderLines)),
		}
		for _, ln := range orderLines {
			evt.Lines = append(evt.Lines, queue.OrderLineEvent{
				ProductID:      ln.ProductID,
				Quantity:       ln.Quantity,
				UnitPriceCents: ln.UnitPriceCents,
			})
		}
		if err := s.publisher.PublishOrderConfirmed(ctx, evt); err != nil {
			s.log.Warn("order event publish failed", zap.String("order_ref", rec.OrderRef), zap.Error(err))
		}
	}
	return CheckoutResult{OrderID: rec.ID, OrderRef: rec.OrderRef, TotalCents: total}, nil
}

// OrderQuery serves the customer-facing read side: order history and a
// single order's detail.
type OrderQuery struct {
	orders *repository.OrderRepo
}

func NewOrderQuery(orders *repository.OrderRepo) *OrderQuery {
	if orders == nil {
		panic("nil orders passed to NewOrderQuery")
	}
	return &OrderQuery{orders: orders}
}

// History lists the customer's orders, newest first.
func (q *OrderQuery) History(ctx context.Context, customerID uint64) ([]model.Order, error) {
	orders, err := q.orders.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, ErrStoreUnavailable
	}
	return orders, nil
}

// Detail loads one order by reference, scoped to the owning customer.
// Returns sql.ErrNoRows when the reference does not exist or belongs to
// someone else.
func (q *OrderQuery) Detail(ctx context.Context, orderRef string, customerID uint64) (*model.OrderDetail, error) {
	return q.orders.GetByRefForCustomer(ctx, orderRef, customerID)
}
