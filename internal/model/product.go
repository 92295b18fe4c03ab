package model

import "time"

// Product is a catalog entry as seen by the cart core: the current unit
// price used to snapshot new cart lines, plus display metadata. Catalog
// management itself lives outside this service.
type Product struct {
	ID         uint64    `json:"id"`
	Title      string    `json:"title"`
	PriceCents int64     `json:"price_cents"`
	Image      *string   `json:"image,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
