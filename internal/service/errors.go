// Package service holds the cart, merge and checkout business logic on top
// of the repository layer. Failures are classified here so handlers can map
// them to user-facing results: validation problems carry a specific message,
// everything else surfaces as a generic processing error while the cause is
// logged server-side.
package service

import "errors"

// ErrStoreUnavailable wraps any backing-store failure outside the checkout
// pipeline's named steps. Surfaced to shoppers as a generic server error;
// the request is safe to retry.
var ErrStoreUnavailable = errors.New("store unavailable")

// Checkout pipeline step failures. Each aborts the remaining steps and
// rolls the transaction back, so a mid-pipeline failure leaves no orphan
// order and the cart intact for retry.
var (
	ErrEmptyCart    = errors.New("cart is empty")
	ErrOrderCreate  = errors.New("order create failed")
	ErrOrderDetails = errors.New("order details failed")
	ErrPayment      = errors.New("payment failed")
)

// ValidationError is a user-facing input problem (bad quantity, unknown
// product). Its message is safe to show to the shopper verbatim.
type ValidationError struct {
	msg string
}

func validationErrorf(msg string) *ValidationError { return &ValidationError{msg: msg} }

func (e *ValidationError) Error() string { return e.msg }
