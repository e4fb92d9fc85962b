package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/social-network-api/internal/token"
)

// Context keys populated by the auth middleware.
const (
	ctxUserID = "user_id"
	ctxJTI    = "jti"
	ctxFresh  = "fresh"
	ctxRaw    = "raw_token"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token,
// rejects revoked tokens, and injects the caller's identity into the request
// context.  Handlers access it via middleware.UserID(c).  The raw token is
// also stored so the logout handler can revoke the credential it was called
// with.
func JWTAuth(ts *token.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			claims, err := ts.Verify(c.Request().Context(), raw, token.TypeAccess)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			uid, err := claims.UserID()
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			c.Set(ctxUserID, uid)
			c.Set(ctxJTI, claims.ID)
			c.Set(ctxFresh, claims.Fresh)
			c.Set(ctxRaw, raw)
			return next(c)
		}
	}
}

// JWTOptional validates a Bearer token when one is presented but lets
// anonymous requests through.  Used by endpoints whose response shape
// depends on who is asking, such as the public user profile.
func JWTOptional(ts *token.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if raw, ok := bearerToken(c); ok {
				if claims, err := ts.Verify(c.Request().Context(), raw, token.TypeAccess); err == nil {
					if uid, err := claims.UserID(); err == nil {
						c.Set(ctxUserID, uid)
						c.Set(ctxJTI, claims.ID)
						c.Set(ctxFresh, claims.Fresh)
						c.Set(ctxRaw, raw)
					}
				}
			}
			return next(c)
		}
	}
}

// bearerToken extracts the raw token from the Authorization header.
func bearerToken(c echo.Context) (string, bool) {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	return raw, raw != ""
}

// UserID returns the authenticated caller's id, or 0 when the request is
// anonymous.
func UserID(c echo.Context) uint64 {
	if v, ok := c.Get(ctxUserID).(uint64); ok {
		return v
	}
	return 0
}

// RawToken returns the credential the caller presented, if any.
func RawToken(c echo.Context) string {
	if v, ok := c.Get(ctxRaw).(string); ok {
		return v
	}
	return ""
}

// IsFresh reports whether the presented access token came directly from a
// password login rather than a refresh.
func IsFresh(c echo.Context) bool {
	v, _ := c.Get(ctxFresh).(bool)
	return v
}
