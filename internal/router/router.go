// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/afrobites/shop-backend/internal/handler"
	"github.com/afrobites/shop-backend/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes. Unauthenticated
// operations live under /v1/auth, protected ones under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Logout accepts either a refresh token in the body or a bearer token,
	// so it sits outside the JWT middleware; OptionalJWT still resolves
	// the customer when a bearer is present.
	g.POST("/logout", a.Logout, middleware.OptionalJWT(jwtSecret))

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterShop registers the cart, checkout and order routes. Cart
// endpoints accept guests and customers alike: OptionalJWT resolves the
// customer when a token is present and falls back to the session cookie.
// Checkout and order history require a logged-in customer.
func RegisterShop(e *echo.Echo, cart *handler.CartHandler, checkout *handler.CheckoutHandler, orders *handler.OrderHandler, jwtSecret string) {
	shop := e.Group("/v1")
	shop.Use(middleware.OptionalJWT(jwtSecret))

	shop.POST("/cart/items", cart.AddItem)
	shop.GET("/cart", cart.GetCart)
	shop.PATCH("/cart/items/:id", cart.UpdateItem)
	shop.DELETE("/cart/items/:id", cart.RemoveItem)
	shop.DELETE("/cart", cart.EmptyCart)

	secured := e.Group("/v1")
	secured.Use(middleware.JWTAuth(jwtSecret))
	secured.POST("/checkout", checkout.PlaceOrder)
	secured.GET("/orders", orders.ListOrders)
	secured.GET("/orders/:ref", orders.GetOrder)
}
