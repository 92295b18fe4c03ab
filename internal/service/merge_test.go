package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afrobites/shop-backend/internal/model"
)

func TestMergeNoOpCases(t *testing.T) {
	store := newFakeStore()
	svc := NewMergeService(store, nil)

	assert.Nil(t, svc.Merge(context.Background(), 7, "", "new"))
	assert.Nil(t, svc.Merge(context.Background(), 7, "same", "same"))
	assert.Nil(t, svc.Merge(context.Background(), 0, "old", "new"))
	// Empty guest cart: nothing to do.
	assert.Nil(t, svc.Merge(context.Background(), 7, "old", "new"))
}

func TestMergeMovesGuestLines(t *testing.T) {
	store := newFakeStore()
	guest := model.GuestOwner("old")
	require.NoError(t, store.Add(context.Background(), guest, 1, 2, 1000))
	require.NoError(t, store.Add(context.Background(), guest, 2, 1, 550))

	svc := NewMergeService(store, nil)
	warnings := svc.Merge(context.Background(), 7, "old", "new")
	assert.Empty(t, warnings)

	// Guest cart cleared, customer cart holds the lines with the guest's
	// price snapshots.
	guestItems, err := store.ListByOwner(context.Background(), guest)
	require.NoError(t, err)
	assert.Empty(t, guestItems)

	custItems, err := store.ListByOwner(context.Background(), model.CustomerOwner(7, "new"))
	require.NoError(t, err)
	require.Len(t, custItems, 2)
	var total int64
	for _, it := range custItems {
		total += it.UnitPriceCents * int64(it.Quantity)
	}
	assert.Equal(t, int64(2550), total)
}

func TestMergeCombinesQuantitiesKeepingCustomerSnapshot(t *testing.T) {
	store := newFakeStore()
	customer := model.CustomerOwner(7, "new")
	guest := model.GuestOwner("old")
	// Customer added product 1 earlier at 900; the guest cart has the same
	// product at today's 1000.
	require.NoError(t, store.Add(context.Background(), customer, 1, 1, 900))
	require.NoError(t, store.Add(context.Background(), guest, 1, 2, 1000))

	svc := NewMergeService(store, nil)
	warnings := svc.Merge(context.Background(), 7, "old", "new")
	assert.Empty(t, warnings)

	custItems, err := store.ListByOwner(context.Background(), customer)
	require.NoError(t, err)
	require.Len(t, custItems, 1)
	assert.Equal(t, 3, custItems[0].Quantity)
	assert.Equal(t, int64(900), custItems[0].UnitPriceCents)
}

func TestMergeFailureKeepsGuestCart(t *testing.T) {
	store := newFakeStore()
	guest := model.GuestOwner("old")
	require.NoError(t, store.Add(context.Background(), guest, 1, 2, 1000))
	store.failAdd = errors.New("deadlock")

	svc := NewMergeService(store, nil)
	warnings := svc.Merge(context.Background(), 7, "old", "new")
	require.Len(t, warnings, 1)

	// The guest cart must survive a partial merge so nothing is lost.
	guestItems, err := store.ListByOwner(context.Background(), guest)
	require.NoError(t, err)
	assert.Len(t, guestItems, 1)
}
