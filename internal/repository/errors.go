// Package repository implements the data access layer on top of MySQL.
// Sentinel errors defined here are shared across repositories so that the
// service and handler layers can distinguish failure scenarios without
// string matching.
package repository

import (
	"errors"
	"strings"
)

// ErrProductNotFound is returned when a catalog lookup targets a product id
// that does not exist. Handlers translate this into a user-facing
// validation message rather than a server error.
var ErrProductNotFound = errors.New("product not found")

// ErrEmailExists is returned when registering a customer with an email that
// is already taken.
var ErrEmailExists = errors.New("email already exists")

// IsDuplicate reports whether err is a MySQL duplicate-key violation
// (error 1062). The checkout path uses it to detect an idempotency-key
// replay that raced past the pre-insert lookup.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "1062")
}
