package model

import "time"

// Order status values. Checkout creates orders directly in the confirmed
// state; no pending or cancelled lifecycle exists in this core.
const OrderStatusConfirmed = "confirmed"

// Payment constants. Payments are recorded, not processed: the method tag
// marks every row as simulated and a successful checkout always writes
// exactly one row with status success.
const (
	PaymentMethodSimulated = "SIMULATED"
	PaymentStatusSuccess   = "success"
)

// Order is an immutable record created once per checkout.
//
// OrderRef is the externally shown reference (date stamp plus a random
// upper-hex suffix). TotalAmountCents is computed server-side from the
// snapshotted lines and always equals the sum of the line subtotals.
type Order struct {
	ID               uint64    `json:"order_id"`
	OrderRef         string    `json:"order_ref"`
	CustomerID       uint64    `json:"customer_id"`
	TotalAmountCents int64     `json:"total_amount_cents"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

// OrderLine is the final snapshot of a cart line captured at checkout time.
// SubtotalCents is UnitPriceCents * Quantity, fixed at creation.
type OrderLine struct {
	ID             uint64 `json:"id"`
	OrderID        uint64 `json:"order_id"`
	ProductID      uint64 `json:"product_id"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Quantity       int    `json:"quantity"`
	SubtotalCents  int64  `json:"subtotal_cents"`
}

// Payment records that an order's total was collected. AmountCents always
// equals the order's TotalAmountCents.
type Payment struct {
	ID          uint64    `json:"id"`
	OrderID     uint64    `json:"order_id"`
	Method      string    `json:"method"`
	AmountCents int64     `json:"amount_cents"`
	PaymentRef  string    `json:"payment_ref"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// OrderDetail bundles an order with its lines and payment for display.
type OrderDetail struct {
	Order   Order       `json:"order"`
	Lines   []OrderLine `json:"lines"`
	Payment *Payment    `json:"payment,omitempty"`
}
