package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afrobites/shop-backend/internal/model"
	"github.com/afrobites/shop-backend/internal/repository"
)

// fakeStore is an in-memory CartStore with the same increment-on-duplicate
// semantics as the real repository: adding a product an owner already has
// bumps the quantity and leaves the original price snapshot alone.
type fakeStore struct {
	nextID  uint64
	lines   map[string]map[uint64]*fakeLine // owner key -> product id -> line
	failAdd error
	failOp  error // injected into list/clear/update/remove
}

type fakeLine struct {
	id    uint64
	qty   int
	price int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{lines: map[string]map[uint64]*fakeLine{}}
}

func storeKey(o model.Owner) string {
	if o.IsCustomer() {
		return fmt.Sprintf("c:%d", o.CustomerID())
	}
	return "g:" + o.SessionKey()
}

func (f *fakeStore) Add(ctx context.Context, owner model.Owner, productID uint64, qty int, unitPriceCents int64) error {
	if f.failAdd != nil {
		return f.failAdd
	}
	key := storeKey(owner)
	if f.lines[key] == nil {
		f.lines[key] = map[uint64]*fakeLine{}
	}
	if ln, ok := f.lines[key][productID]; ok {
		ln.qty += qty
		return nil
	}
	f.nextID++
	f.lines[key][productID] = &fakeLine{id: f.nextID, qty: qty, price: unitPriceCents}
	return nil
}

func (f *fakeStore) UpdateQuantity(ctx context.Context, lineID uint64, qty int) (bool, error) {
	if f.failOp != nil {
		return false, f.failOp
	}
	for _, byProduct := range f.lines {
		for _, ln := range byProduct {
			if ln.id == lineID {
				ln.qty = qty
				return true, nil
			}
		}
	}
	return false, nil
}

func (f *fakeStore) Remove(ctx context.Context, lineID uint64) error {
	if f.failOp != nil {
		return f.failOp
	}
	for key, byProduct := range f.lines {
		for pid, ln := range byProduct {
			if ln.id == lineID {
				delete(f.lines[key], pid)
				return nil
			}
		}
	}
	return nil
}

func (f *fakeStore) ListByOwner(ctx context.Context, owner model.Owner) ([]model.CartItemView, error) {
	if f.failOp != nil {
		return nil, f.failOp
	}
	items := []model.CartItemView{}
	for pid, ln := range f.lines[storeKey(owner)] {
		items = append(items, model.CartItemView{
			ID:             ln.id,
			ProductID:      pid,
			Quantity:       ln.qty,
			UnitPriceCents: ln.price,
			SubtotalCents:  ln.price * int64(ln.qty),
		})
	}
	return items, nil
}

func (f *fakeStore) Clear(ctx context.Context, owner model.Owner) error {
	if f.failOp != nil {
		return f.failOp
	}
	delete(f.lines, storeKey(owner))
	return nil
}

// fakeCatalog maps product ids to current prices.
type fakeCatalog struct {
	prices map[uint64]int64
}

func (f *fakeCatalog) GetByID(ctx context.Context, productID uint64) (model.Product, error) {
	price, ok := f.prices[productID]
	if !ok {
		return model.Product{}, repository.ErrProductNotFound
	}
	return model.Product{ID: productID, Title: fmt.Sprintf("Product %d", productID), PriceCents: price}, nil
}

func TestAddItemRequiresProductID(t *testing.T) {
	svc := NewCartService(newFakeStore(), &fakeCatalog{prices: map[uint64]int64{}}, nil)

	err := svc.AddItem(context.Background(), model.GuestOwner("s1"), 0, 1)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc := NewCartService(newFakeStore(), &fakeCatalog{prices: map[uint64]int64{}}, nil)

	err := svc.AddItem(context.Background(), model.GuestOwner("s1"), 99, 1)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "product not found", ve.Error())
}

func TestAddItemSnapshotsPriceAtFirstAdd(t *testing.T) {
	store := newFakeStore()
	catalog := &fakeCatalog{prices: map[uint64]int64{1: 1000}}
	svc := NewCartService(store, catalog, nil)
	owner := model.GuestOwner("s1")

	require.NoError(t, svc.AddItem(context.Background(), owner, 1, 2))

	// A catalog price change must not touch the existing line; the
	// increment keeps the first-add snapshot.
	catalog.prices[1] = 9999
	require.NoError(t, svc.AddItem(context.Background(), owner, 1, 1))

	summary, err := svc.Items(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, 3, summary.Items[0].Quantity)
	assert.Equal(t, int64(1000), summary.Items[0].UnitPriceCents)
	assert.Equal(t, int64(3000), summary.TotalCents)
	assert.Equal(t, "30.00", summary.Total)
}

func TestAddItemClampsQuantity(t *testing.T) {
	store := newFakeStore()
	svc := NewCartService(store, &fakeCatalog{prices: map[uint64]int64{1: 500}}, nil)
	owner := model.GuestOwner("s1")

	require.NoError(t, svc.AddItem(context.Background(), owner, 1, 0))

	summary, err := svc.Items(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, 1, summary.Items[0].Quantity)
}

func TestItemsTotals(t *testing.T) {
	store := newFakeStore()
	svc := NewCartService(store, &fakeCatalog{prices: map[uint64]int64{1: 1000, 2: 550}}, nil)
	owner := model.CustomerOwner(7, "s1")

	require.NoError(t, svc.AddItem(context.Background(), owner, 1, 2))
	require.NoError(t, svc.AddItem(context.Background(), owner, 2, 1))

	summary, err := svc.Items(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Count)
	assert.Equal(t, int64(2550), summary.TotalCents)
	assert.Equal(t, "25.50", summary.Total)
}

func TestUpdateQuantityUnknownLine(t *testing.T) {
	svc := NewCartService(newFakeStore(), &fakeCatalog{prices: map[uint64]int64{}}, nil)

	found, err := svc.UpdateQuantity(context.Background(), 42, 3)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRemoveItemIdempotent(t *testing.T) {
	store := newFakeStore()
	svc := NewCartService(store, &fakeCatalog{prices: map[uint64]int64{1: 100}}, nil)
	owner := model.GuestOwner("s1")

	require.NoError(t, svc.AddItem(context.Background(), owner, 1, 1))
	require.NoError(t, svc.RemoveItem(context.Background(), 1))
	// Second remove of the same line still succeeds.
	require.NoError(t, svc.RemoveItem(context.Background(), 1))

	summary, err := svc.Items(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Count)
}

func TestStoreFailuresWrapped(t *testing.T) {
	store := newFakeStore()
	store.failOp = errors.New("connection refused")
	svc := NewCartService(store, &fakeCatalog{prices: map[uint64]int64{1: 100}}, nil)

	_, err := svc.Items(context.Background(), model.GuestOwner("s1"))
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	err = svc.Empty(context.Background(), model.GuestOwner("s1"))
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}
