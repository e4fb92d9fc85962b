package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/social-network-api/internal/config"
	"github.com/iliyamo/social-network-api/internal/middleware"
	"github.com/iliyamo/social-network-api/internal/model"
	"github.com/iliyamo/social-network-api/internal/repository"
)

// FriendHandler bundles dependencies for the friendship-graph endpoints.
type FriendHandler struct {
	Cfg      config.Config
	CacheCfg config.CacheConfig
	Users    *repository.UserRepo
	Friends  *repository.FriendshipRepo
	RDB      *redis.Client
}

func NewFriendHandler(cfg config.Config, cacheCfg config.CacheConfig, u *repository.UserRepo,
	f *repository.FriendshipRepo, rdb *redis.Client) *FriendHandler {
	return &FriendHandler{Cfg: cfg, CacheCfg: cacheCfg, Users: u, Friends: f, RDB: rdb}
}

// ListFriends returns one page of the caller's friend set, filtered by
// keyword against username or email.  The caller is always the owner of
// the listed edges, so friends are shown in the private projection.
func (h *FriendHandler) ListFriends(c echo.Context) error {
	q := searchQueryFrom(c, 20)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	friends, page, err := h.Friends.SearchFriends(ctx, middleware.UserID(c), q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	data := make([]userResp, 0, len(friends))
	for _, f := range friends {
		data = append(data, privateUser(f, nil, h.Cfg.BaseURL))
	}
	return c.JSON(http.StatusOK, pageResp{Data: data, Page: page})
}

// AddFriend creates the symmetric edge between the caller and the named
// user.  Preconditions in order: the candidate exists, is not the
// caller, and is not already a friend.  Both directions become visible
// atomically.
func (h *FriendHandler) AddFriend(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, friend, err := h.resolvePair(ctx, c)
	if err != nil {
		return h.pairError(c, err)
	}

	if err := h.Friends.Add(ctx, user.ID, friend.ID); err != nil {
		switch {
		case errors.Is(err, repository.ErrSelfFriendship):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "user cannot be friend with itself"})
		case errors.Is(err, repository.ErrAlreadyFriends):
			return c.JSON(http.StatusConflict, echo.Map{"error": "user is already friend with other user"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add friend failed"})
	}

	middleware.InvalidateCache(ctx, h.RDB, h.CacheCfg, "/v1/users")

	return h.respondWithCaller(ctx, c, user.ID)
}

// RemoveFriend deletes the symmetric edge between the caller and the
// named user.  Removing a non-existent edge fails without mutating
// anything.
func (h *FriendHandler) RemoveFriend(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, friend, err := h.resolvePair(ctx, c)
	if err != nil {
		return h.pairError(c, err)
	}

	if err := h.Friends.Remove(ctx, user.ID, friend.ID); err != nil {
		if errors.Is(err, repository.ErrNotFriends) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "user is not friend with other user"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "remove friend failed"})
	}

	middleware.InvalidateCache(ctx, h.RDB, h.CacheCfg, "/v1/users")

	return h.respondWithCaller(ctx, c, user.ID)
}

var errFriendNotFound = errors.New("friend not found")

// resolvePair loads the caller and the :username route target.
func (h *FriendHandler) resolvePair(ctx context.Context, c echo.Context) (user, friend model.User, err error) {
	user, err = h.Users.GetByID(ctx, middleware.UserID(c))
	if err != nil {
		return user, friend, err
	}
	friend, err = h.Users.GetByUsername(ctx, c.Param("username"))
	if errors.Is(err, repository.ErrUserNotFound) {
		err = errFriendNotFound
	}
	return user, friend, err
}

func (h *FriendHandler) pairError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	case errors.Is(err, errFriendNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "friend not found"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
}

// respondWithCaller returns the caller's refreshed private projection,
// friend list included, after a successful mutation.
func (h *FriendHandler) respondWithCaller(ctx context.Context, c echo.Context, userID uint64) error {
	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	friends, err := h.Friends.List(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, privateUser(u, friends, h.Cfg.BaseURL))
}
