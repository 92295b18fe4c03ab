package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/afrobites/shop-backend/internal/service"
)

// CartHandler serves the cart endpoints. All of them work for both guests
// and logged-in customers; the owning identity comes from currentOwner.
type CartHandler struct {
	Carts *service.CartService
}

func NewCartHandler(carts *service.CartService) *CartHandler {
	if carts == nil {
		panic("nil cart service passed to NewCartHandler")
	}
	return &CartHandler{Carts: carts}
}

type addItemReq struct {
	ProductID uint64 `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type updateItemReq struct {
	Quantity int `json:"quantity"`
}

// AddItem puts a product in the cart, or bumps its quantity when it is
// already there. POST /v1/cart/items
func (h *CartHandler) AddItem(c echo.Context) error {
	var req addItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Carts.AddItem(ctx, currentOwner(c), req.ProductID, req.Quantity); err != nil {
		return cartError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Product added to cart successfully!"})
}

// GetCart returns the cart contents with per-line and grand totals.
// GET /v1/cart
func (h *CartHandler) GetCart(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	summary, err := h.Carts.Items(ctx, currentOwner(c))
	if err != nil {
		return cartError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"items":   summary.Items,
		"count":   summary.Count,
		"total":   summary.Total,
	})
}

// UpdateItem sets a cart line's quantity. PATCH /v1/cart/items/:id
func (h *CartHandler) UpdateItem(c echo.Context) error {
	lineID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || lineID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid cart item id"})
	}
	var req updateItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	found, err := h.Carts.UpdateQuantity(ctx, lineID, req.Quantity)
	if err != nil {
		return cartError(c, err)
	}
	if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "cart item not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Cart updated."})
}

// RemoveItem deletes one cart line. Removing a line that is already gone
// still succeeds. DELETE /v1/cart/items/:id
func (h *CartHandler) RemoveItem(c echo.Context) error {
	lineID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || lineID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid cart item id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Carts.RemoveItem(ctx, lineID); err != nil {
		return cartError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Item removed from cart."})
}

// EmptyCart removes every line the caller owns. DELETE /v1/cart
func (h *CartHandler) EmptyCart(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Carts.Empty(ctx, currentOwner(c)); err != nil {
		return cartError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Cart emptied."})
}

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// cartError maps service failures to responses: validation problems show
// their message to the shopper, anything else is a generic server error.
func cartError(c echo.Context, err error) error {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": ve.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Something went wrong. Please try again."})
}
