package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/social-network-api/internal/config"
	"github.com/iliyamo/social-network-api/internal/middleware"
	"github.com/iliyamo/social-network-api/internal/queue"
	"github.com/iliyamo/social-network-api/internal/repository"
	queue_publisher "github.com/iliyamo/social-network-api/internal/service"
	"github.com/iliyamo/social-network-api/internal/token"
	"github.com/iliyamo/social-network-api/internal/utils"
)

// UserHandler bundles dependencies for registration, activation,
// profile and listing endpoints.
type UserHandler struct {
	Cfg        config.Config
	CacheCfg   config.CacheConfig
	Users      *repository.UserRepo
	Friends    *repository.FriendshipRepo
	Activation *token.ActivationCodec
	RDB        *redis.Client
}

func NewUserHandler(cfg config.Config, cacheCfg config.CacheConfig, u *repository.UserRepo,
	f *repository.FriendshipRepo, a *token.ActivationCodec, rdb *redis.Client) *UserHandler {
	return &UserHandler{Cfg: cfg, CacheCfg: cacheCfg, Users: u, Friends: f, Activation: a, RDB: rdb}
}

// ----- DTOs -----

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type updateReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new, not yet activated user and mails an
// activation link.  Email delivery happens asynchronously through the
// message queue so a slow mail provider never blocks registration.
func (h *UserHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/email/password required"})
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Create(ctx, req.Username, req.Email, hash)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "username already used"})
		case errors.Is(err, repository.ErrEmailExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already used"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	link := h.Cfg.BaseURL + "/v1/users/activate/" + h.Activation.Encode(u.Email)
	ev := queue.UserRegisteredEvent{
		UserID:         u.ID,
		Username:       u.Username,
		Email:          u.Email,
		ActivationLink: link,
		RegisteredAt:   u.CreatedAt.UTC().Format(time.RFC3339),
	}
	go func() {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pubCancel()
		if err := queue_publisher.PublishUserRegistered(pubCtx, ev); err != nil {
			log.Printf("register: publish activation event failed for user %d: %v", u.ID, err)
		}
	}()

	middleware.InvalidateCache(ctx, h.RDB, h.CacheCfg, "/v1/users")

	return c.JSON(http.StatusCreated, privateUser(u, nil, h.Cfg.BaseURL))
}

// Activate flips the account's activation flag exactly once, using the
// time-limited token from the registration email.
func (h *UserHandler) Activate(c echo.Context) error {
	tok := c.Param("token")

	maxAge := time.Duration(h.Cfg.ActivationTTLMin) * time.Minute
	email, err := h.Activation.Decode(tok, maxAge)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid token or token expired"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.Users.Activate(ctx, u.ID); err != nil {
		if errors.Is(err, repository.ErrAlreadyActive) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "user account is already activated"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "activate failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// GetUser returns a user profile by username.  The subject sees the
// private projection; everyone else gets the public one, which omits
// email and the friend list.
func (h *UserHandler) GetUser(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, c.Param("username"))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if middleware.UserID(c) == u.ID {
		friends, err := h.Friends.List(ctx, u.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		return c.JSON(http.StatusOK, privateUser(u, friends, h.Cfg.BaseURL))
	}
	return c.JSON(http.StatusOK, publicUser(u, h.Cfg.BaseURL))
}

// Me returns the caller's own private projection.
func (h *UserHandler) Me(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, middleware.UserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	friends, err := h.Friends.List(ctx, u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, privateUser(u, friends, h.Cfg.BaseURL))
}

// ListUsers returns one page of all users matching the keyword filter,
// in public projection.  Sort/order fall back silently to
// created_at/desc when outside the allow-list.
func (h *UserHandler) ListUsers(c echo.Context) error {
	q := searchQueryFrom(c, 10)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, page, err := h.Users.SearchAll(ctx, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, pageResp{Data: publicUsers(users, h.Cfg.BaseURL), Page: page})
}

// UpdateMe applies a partial profile update.  Absent or empty fields
// leave existing values unchanged; a field cannot be cleared through
// this endpoint.
func (h *UserHandler) UpdateMe(c echo.Context) error {
	var req updateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	hash := ""
	if req.Password != "" {
		var err error
		if hash, err = utils.HashPassword(req.Password, h.Cfg.BcryptCost); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Update(ctx, middleware.UserID(c), req.Username, req.Email, hash)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "username already used"})
		case errors.Is(err, repository.ErrEmailExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already used"})
		case errors.Is(err, repository.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	middleware.InvalidateCache(ctx, h.RDB, h.CacheCfg, "/v1/users")

	friends, err := h.Friends.List(ctx, u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, privateUser(u, friends, h.Cfg.BaseURL))
}

// DeleteMe removes the account and all friendship edges referencing it.
// Routed behind RequireFresh: a token obtained via refresh is not
// enough to destroy an account.
func (h *UserHandler) DeleteMe(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Delete(ctx, middleware.UserID(c)); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}

	middleware.InvalidateCache(ctx, h.RDB, h.CacheCfg, "/v1/users")

	return c.NoContent(http.StatusNoContent)
}

// UploadAvatar stores an uploaded image under a generated filename and
// points the user's avatar reference at it.  The previous file, if any,
// is removed.  Image processing beyond that is out of scope here.
func (h *UserHandler) UploadAvatar(c echo.Context) error {
	fh, err := c.FormFile("avatar")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "not a valid image"})
	}
	if !utils.AvatarFileAllowed(fh.Filename) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file type not allowed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, middleware.UserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	filename := utils.NewAvatarFilename(fh.Filename)
	if err := saveUpload(fh, filepath.Join(h.Cfg.AvatarDir, filename)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save avatar failed"})
	}
	if u.AvatarImage.Valid && u.AvatarImage.String != "" {
		_ = os.Remove(filepath.Join(h.Cfg.AvatarDir, u.AvatarImage.String))
	}
	if err := h.Users.UpdateAvatar(ctx, u.ID, filename); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update avatar failed"})
	}

	middleware.InvalidateCache(ctx, h.RDB, h.CacheCfg, "/v1/users")

	u.AvatarImage.Valid = true
	u.AvatarImage.String = filename
	return c.JSON(http.StatusOK, echo.Map{"avatar_url": u.AvatarURL(h.Cfg.BaseURL)})
}

// searchQueryFrom parses the shared listing query parameters.
func searchQueryFrom(c echo.Context, defPerPage int) repository.SearchQuery {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	perPage, _ := strconv.Atoi(c.QueryParam("per_page"))
	if perPage < 1 {
		perPage = defPerPage
	}
	return repository.SearchQuery{
		Q:       strings.TrimSpace(c.QueryParam("q")),
		Page:    page,
		PerPage: perPage,
		Sort:    strings.TrimSpace(c.QueryParam("sort")),
		Order:   strings.TrimSpace(c.QueryParam("order")),
	}
}
