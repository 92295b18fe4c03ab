// Package handler defines the HTTP handlers for auth, cart, checkout and
// order endpoints.
package handler

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/afrobites/shop-backend/internal/model"
)

// getCustomerID extracts the authenticated customer's ID from the request
// context. JWT numeric claims arrive as float64; older token shapes may
// carry strings, so normalize all of them.
func getCustomerID(c echo.Context) (uint64, error) {
	v := c.Get("customer_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid customer_id in context")
}

// sessionKey returns the cart session key placed in the context by the
// session middleware.
func sessionKey(c echo.Context) string {
	if v, ok := c.Get("session_key").(string); ok {
		return v
	}
	return ""
}

// currentOwner resolves the cart identity for this request: the customer
// when a valid token was presented, otherwise the anonymous session.
func currentOwner(c echo.Context) model.Owner {
	key := sessionKey(c)
	if id, err := getCustomerID(c); err == nil && id != 0 {
		return model.CustomerOwner(id, key)
	}
	return model.GuestOwner(key)
}
