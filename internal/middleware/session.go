package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/afrobites/shop-backend/internal/utils"
)

// SessionCookieName is the cookie that carries the anonymous cart session
// key. Every visitor gets one on first contact, authenticated or not; login
// rotates it so the pre-login key cannot be replayed to read the
// customer's cart.
const SessionCookieName = "shop_session"

// Session ensures every request carries a cart session key. If the cookie
// is missing or empty, a fresh key is minted and set on the response. The
// key is stored in the request context under "session_key" for handlers.
func Session(ttlDays int) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := ""
			if ck, err := c.Cookie(SessionCookieName); err == nil && ck.Value != "" {
				key = ck.Value
			}
			if key == "" {
				fresh, err := NewSessionKey()
				if err != nil {
					return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session init failed"})
				}
				key = fresh
				SetSessionCookie(c, key, ttlDays)
			}
			c.Set("session_key", key)
			return next(c)
		}
	}
}

// NewSessionKey mints a random cart session key.
func NewSessionKey() (string, error) {
	return utils.RandomHex(16)
}

// SetSessionCookie writes the session cookie on the response. Handlers call
// this directly when rotating the key at login.
func SetSessionCookie(c echo.Context, key string, ttlDays int) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    key,
		Path:     "/",
		Expires:  time.Now().Add(time.Duration(ttlDays) * 24 * time.Hour),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
