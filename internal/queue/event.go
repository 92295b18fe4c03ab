// Package queue defines message payloads exchanged over the message broker
// and the background consumer that processes them.
package queue

import "time"

// OrderConfirmedEvent is published after a checkout commits. It carries
// enough information for downstream consumers to log, notify, or trigger
// analytics without querying the primary database. EventID lets consumers
// deduplicate redeliveries.
type OrderConfirmedEvent struct {
	EventID    string           `json:"event_id"`
	OrderID    uint64           `json:"order_id"`
	OrderRef   string           `json:"order_ref"`
	CustomerID uint64           `json:"customer_id"`
	TotalCents int64            `json:"total_cents"`
	Lines      []OrderLineEvent `json:"lines"`
	CreatedAt  time.Time        `json:"created_at"`
}

// OrderLineEvent is one purchased line inside an OrderConfirmedEvent.
type OrderLineEvent struct {
	ProductID      uint64 `json:"product_id"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}
