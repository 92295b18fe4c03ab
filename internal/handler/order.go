package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/afrobites/shop-backend/internal/model"
	"github.com/afrobites/shop-backend/internal/service"
)

// OrderHandler serves the customer's order history. Authenticated only.
type OrderHandler struct {
	Orders *service.OrderQuery
}

func NewOrderHandler(orders *service.OrderQuery) *OrderHandler {
	if orders == nil {
		panic("nil order query passed to NewOrderHandler")
	}
	return &OrderHandler{Orders: orders}
}

// ListOrders returns the caller's orders, newest first. GET /v1/orders
func (h *OrderHandler) ListOrders(c echo.Context) error {
	cid, err := getCustomerID(c)
	if err != nil || cid == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "login required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	orders, err := h.Orders.History(ctx, cid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Could not load orders."})
	}
	views := make([]echo.Map, 0, len(orders))
	for _, o := range orders {
		views = append(views, echo.Map{
			"order_ref":  o.OrderRef,
			"total":      model.FormatCents(o.TotalAmountCents),
			"status":     o.Status,
			"created_at": o.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "orders": views})
}

// GetOrder returns one order with its lines and payment.
// GET /v1/orders/:ref
func (h *OrderHandler) GetOrder(c echo.Context) error {
	cid, err := getCustomerID(c)
	if err != nil || cid == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "login required"})
	}
	ref := strings.TrimSpace(c.Param("ref"))
	if ref == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "order reference required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	det, err := h.Orders.Detail(ctx, ref, cid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Could not load order."})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "order": det})
}
