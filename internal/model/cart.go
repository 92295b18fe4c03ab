package model

import "time"

// CartLine is one product entry in a cart. Exactly one of CustomerID or
// SessionKey is set, matching the owner the line was written under.
//
// UnitPriceCents is a snapshot taken when the line was first created; later
// catalog price changes do not touch existing lines. This is deliberate
// shopper-facing price stability, not a caching shortcut.
type CartLine struct {
	ID             uint64    // cart_lines.id
	CustomerID     *uint64   // cart_lines.customer_id (nullable)
	SessionKey     *string   // cart_lines.session_key (nullable)
	ProductID      uint64    // cart_lines.product_id
	Quantity       int       // cart_lines.quantity, always >= 1
	UnitPriceCents int64     // cart_lines.unit_price_cents, first-add snapshot
	AddedAt        time.Time // cart_lines.added_at
}

// CartItemView is a cart line joined with product display fields, as returned
// to the storefront. Subtotal is UnitPriceCents * Quantity.
type CartItemView struct {
	ID             uint64    `json:"id"`
	ProductID      uint64    `json:"product_id"`
	Title          string    `json:"title"`
	Image          *string   `json:"image,omitempty"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	UnitPrice      string    `json:"unit_price"`
	SubtotalCents  int64     `json:"subtotal_cents"`
	Subtotal       string    `json:"subtotal"`
	AddedAt        time.Time `json:"added_at"`
}
