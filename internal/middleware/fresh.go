package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireFresh enforces that the access token was obtained directly from
// a password login.  Tokens minted through a refresh are not fresh, so
// sensitive operations (e.g. deleting the account) force the caller to
// re-enter their password first.  It assumes JWTAuth ran earlier in the
// chain.
func RequireFresh() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !IsFresh(c) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "fresh token required"})
			}
			return next(c)
		}
	}
}
