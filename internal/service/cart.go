package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/afrobites/shop-backend/internal/model"
	"github.com/afrobites/shop-backend/internal/repository"
)

// CartStore is the persistence surface the cart and merge services depend
// on. *repository.CartRepo satisfies it.
type CartStore interface {
	Add(ctx context.Context, owner model.Owner, productID uint64, qty int, unitPriceCents int64) error
	UpdateQuantity(ctx context.Context, lineID uint64, qty int) (bool, error)
	Remove(ctx context.Context, lineID uint64) error
	ListByOwner(ctx context.Context, owner model.Owner) ([]model.CartItemView, error)
	Clear(ctx context.Context, owner model.Owner) error
}

// Catalog is the narrow product lookup used to snapshot unit prices at
// first add. *repository.ProductRepo satisfies it.
type Catalog interface {
	GetByID(ctx context.Context, productID uint64) (model.Product, error)
}

// CartSummary is the storefront view of a cart: its lines newest-first plus
// the display total. The total formula (sum of unit price times quantity)
// is the same one checkout applies, so the amount a shopper sees here
// always matches the amount charged.
type CartSummary struct {
	Items      []model.CartItemView `json:"items"`
	Count      int                  `json:"count"`
	TotalCents int64                `json:"total_cents"`
	Total      string               `json:"total"`
}

// CartService implements the cart operations for guests and customers.
type CartService struct {
	store   CartStore
	catalog Catalog
	log     *zap.Logger
}

// NewCartService constructs a CartService. log may be nil.
func NewCartService(store CartStore, catalog Catalog, log *zap.Logger) *CartService {
	if store == nil || catalog == nil {
		panic("nil dependency passed to NewCartService")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CartService{store: store, catalog: catalog, log: log}
}

// clampQty normalizes a requested quantity to the valid range (>= 1).
func clampQty(qty int) int {
	if qty < 1 {
		return 1
	}
	return qty
}

// AddItem puts a product into the owner's cart, incrementing the existing
// line when the owner already has the product. The unit price is read from
// the catalog at this moment and snapshotted with the new line; the
// increment path leaves the earlier snapshot in place.
func (s *CartService) AddItem(ctx context.Context, owner model.Owner, productID uint64, qty int) error {
	if productID == 0 {
		return validationErrorf("a valid product id is required")
	}
	qty = clampQty(qty)

	p, err := s.catalog.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return validationErrorf("product not found")
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err := s.store.Add(ctx, owner, productID, qty, p.PriceCents); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Items returns the owner's cart with its computed total.
func (s *CartService) Items(ctx context.Context, owner model.Owner) (CartSummary, error) {
	items, err := s.store.ListByOwner(ctx, owner)
	if err != nil {
		return CartSummary{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	var total int64
	for _, it := range items {
		total += it.UnitPriceCents * int64(it.Quantity)
	}
	return CartSummary{
		Items:      items,
		Count:      len(items),
		TotalCents: total,
		Total:      model.FormatCents(total),
	}, nil
}

// UpdateQuantity sets a line's quantity, clamped to >= 1. It reports
// found=false for an unknown line id; that is a failure result for the
// caller, not an error.
func (s *CartService) UpdateQuantity(ctx context.Context, lineID uint64, qty int) (bool, error) {
	if lineID == 0 {
		return false, validationErrorf("a valid cart line id is required")
	}
	found, err := s.store.UpdateQuantity(ctx, lineID, clampQty(qty))
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return found, nil
}

// RemoveItem deletes a line. Removing an already-removed line succeeds.
func (s *CartService) RemoveItem(ctx context.Context, lineID uint64) error {
	if lineID == 0 {
		return validationErrorf("a valid cart line id is required")
	}
	if err := s.store.Remove(ctx, lineID); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Empty clears the owner's whole cart.
func (s *CartService) Empty(ctx context.Context, owner model.Owner) error {
	if err := s.store.Clear(ctx, owner); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
