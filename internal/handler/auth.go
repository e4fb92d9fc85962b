package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/social-network-api/internal/config"
	"github.com/iliyamo/social-network-api/internal/middleware"
	"github.com/iliyamo/social-network-api/internal/repository"
	"github.com/iliyamo/social-network-api/internal/token"
	"github.com/iliyamo/social-network-api/internal/utils"
)

// AuthHandler bundles dependencies for the token lifecycle endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *token.Service
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *token.Service) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t}
}

// ----- DTOs -----

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type pairResp struct {
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

// Login verifies the credentials of an activated account and returns a
// fresh access token together with a refresh token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "email or password is incorrect"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "email or password is incorrect"})
	}

	pair, err := h.Tokens.IssuePairFor(u)
	if err != nil {
		if errors.Is(err, token.ErrNotActivated) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "user account is not activated yet"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}

	return c.JSON(http.StatusOK, pairResp{
		Access:  tokenPart{Token: pair.Access.Token, Expires: pair.Access.ExpiresAt},
		Refresh: tokenPart{Token: pair.Refresh.Token, Expires: pair.Refresh.ExpiresAt},
	})
}

// Refresh exchanges a valid refresh token for a new, non-fresh access
// token.  The refresh token is not rotated; it stays valid until expiry
// or revocation.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	access, err := h.Tokens.Refresh(ctx, strings.TrimSpace(req.RefreshToken))
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access": tokenPart{Token: access.Token, Expires: access.ExpiresAt},
	})
}

// Logout revokes the access token the request was authenticated with,
// and optionally a refresh token supplied in the body, by adding their
// jtis to the revocation set.  Revoking the same token twice is a no-op.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if raw := middleware.RawToken(c); raw != "" {
		if err := h.Tokens.Revoke(ctx, raw); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
		}
	}

	// Best-effort body bind: the refresh token is optional.
	var req refreshReq
	_ = c.Bind(&req)
	if rt := strings.TrimSpace(req.RefreshToken); rt != "" {
		if err := h.Tokens.Revoke(ctx, rt); err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"msg": "successfully logged out"})
}
