package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/afrobites/shop-backend/internal/model"
)

// MergeService folds an anonymous shopper's cart into their newly
// authenticated identity. It runs once, right after a successful login
// rotated the session key, and is best-effort by policy: merge problems
// are reported as warnings and logged, never as login failures. Cart merge
// is an enhancement to login, not a precondition for it.
type MergeService struct {
	store CartStore
	log   *zap.Logger
}

// NewMergeService constructs a MergeService. log may be nil.
func NewMergeService(store CartStore, log *zap.Logger) *MergeService {
	if store == nil {
		panic("nil store passed to NewMergeService")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &MergeService{store: store, log: log}
}

// Merge replays every line of the guest cart under oldKey into the
// customer's cart, then clears the guest cart. Replaying goes through
// Add's increment-on-duplicate semantics, so a product the customer
// already has combines quantities instead of duplicating, keeping the
// customer's original price snapshot. Lines new to the customer carry
// over the guest's snapshot price, preserving the price the shopper saw.
//
// The returned warnings are empty on full success. When any line fails to
// replay, the guest cart is left in place so nothing is lost; a later
// retry re-runs the merge and the increments would then double-add, which
// is why callers must not retry after a run that cleared the guest cart.
func (s *MergeService) Merge(ctx context.Context, customerID uint64, oldKey, newKey string) []string {
	if customerID == 0 || oldKey == "" || oldKey == newKey {
		return nil
	}
	guest := model.GuestOwner(oldKey)
	lines, err := s.store.ListByOwner(ctx, guest)
	if err != nil {
		return s.warn(customerID, []string{fmt.Sprintf("guest cart read failed: %v", err)})
	}
	if len(lines) == 0 {
		return nil
	}

	owner := model.CustomerOwner(customerID, newKey)
	var warnings []string
	for _, ln := range lines {
		if err := s.store.Add(ctx, owner, ln.ProductID, ln.Quantity, ln.UnitPriceCents); err != nil {
			warnings = append(warnings, fmt.Sprintf("product %d not merged: %v", ln.ProductID, err))
		}
	}
	if len(warnings) > 0 {
		return s.warn(customerID, warnings)
	}
	if err := s.store.Clear(ctx, guest); err != nil {
		warnings = append(warnings, fmt.Sprintf("guest cart not cleared: %v", err))
		return s.warn(customerID, warnings)
	}
	s.log.Info("guest cart merged",
		zap.Uint64("customer_id", customerID),
		zap.Int("lines", len(lines)))
	return nil
}

func (s *MergeService) warn(customerID uint64, warnings []string) []string {
	s.log.Warn("cart merge incomplete",
		zap.Uint64("customer_id", customerID),
		zap.Strings("warnings", warnings))
	return warnings
}
