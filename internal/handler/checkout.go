package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/afrobites/shop-backend/internal/model"
	"github.com/afrobites/shop-backend/internal/service"
)

// CheckoutHandler serves the checkout endpoint. Checkout requires an
// authenticated customer; guests must log in first.
type CheckoutHandler struct {
	Checkout *service.CheckoutService
}

func NewCheckoutHandler(checkout *service.CheckoutService) *CheckoutHandler {
	if checkout == nil {
		panic("nil checkout service passed to NewCheckoutHandler")
	}
	return &CheckoutHandler{Checkout: checkout}
}

type checkoutReq struct {
	IdempotencyKey string `json:"idempotency_key"`
}

// PlaceOrder converts the customer's cart into a confirmed order.
// POST /v1/checkout. The idempotency key may come from the
// Idempotency-Key header or the request body; the header wins.
func (h *CheckoutHandler) PlaceOrder(c echo.Context) error {
	cid, err := getCustomerID(c)
	if err != nil || cid == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "login required"})
	}

	var req checkoutReq
	_ = c.Bind(&req)
	idemKey := strings.TrimSpace(c.Request().Header.Get("Idempotency-Key"))
	if idemKey == "" {
		idemKey = strings.TrimSpace(req.IdempotencyKey)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.Checkout.Checkout(ctx, cid, sessionKey(c), idemKey)
	if err != nil {
		if errors.Is(err, service.ErrEmptyCart) {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Cart is empty."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Checkout failed. Please try again."})
	}

	status := http.StatusCreated
	if res.Replayed {
		status = http.StatusOK
	}
	return c.JSON(status, echo.Map{
		"success":   true,
		"message":   "Order placed successfully!",
		"order_id":  res.OrderID,
		"order_ref": res.OrderRef,
		"total":     model.FormatCents(res.TotalCents),
	})
}
