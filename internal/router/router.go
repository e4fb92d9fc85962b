package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/social-network-api/internal/config"
	"github.com/iliyamo/social-network-api/internal/handler"
	"github.com/iliyamo/social-network-api/internal/middleware"
	"github.com/iliyamo/social-network-api/internal/token"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Besides the health check it serves the
// static directory holding avatars and the default avatar asset.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.Static("/static", "static")
}

// RegisterAuth registers the token lifecycle endpoints.  Login and
// refresh are open; logout needs a valid access token because it
// revokes the credential it was called with.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, ts *token.Service) {
	g := e.Group("/v1/auth")
	g.POST("/token", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/revoke", a.Logout, middleware.JWTAuth(ts))
}

// RegisterUsers wires registration, activation, profile and listing
// routes.  Listing endpoints sit behind the rate limiter and the
// response cache; everything else is served uncached.
func RegisterUsers(e *echo.Echo, u *handler.UserHandler, ts *token.Service, rdb *redis.Client, cacheCfg config.CacheConfig) {
	// Open endpoints: registration and email activation.
	e.POST("/v1/users", u.Register)
	e.GET("/v1/users/activate/:token", u.Activate)

	// Profile view adapts to the caller, so the token is optional.
	e.GET("/v1/users/:username", u.GetUser, middleware.JWTOptional(ts))

	usersLimiter := middleware.NewTokenBucket(config.LoadRateLimitConfig("rl_users", 5), rdb)
	cache := middleware.NewResponseCache(cacheCfg, rdb)
	e.GET("/v1/users", u.ListUsers, middleware.JWTAuth(ts), usersLimiter, cache)

	auth := e.Group("/v1", middleware.JWTAuth(ts))
	auth.GET("/me", u.Me)
	auth.PATCH("/me", u.UpdateMe)
	auth.DELETE("/me", u.DeleteMe, middleware.RequireFresh())
	auth.PUT("/me/avatar", u.UploadAvatar)
}

// RegisterFriends wires the friendship graph endpoints.  All of them
// operate on the authenticated caller's own edge set.
func RegisterFriends(e *echo.Echo, f *handler.FriendHandler, ts *token.Service, rdb *redis.Client, cacheCfg config.CacheConfig) {
	friendsLimiter := middleware.NewTokenBucket(config.LoadRateLimitConfig("rl_friends", 10), rdb)
	cache := middleware.NewResponseCache(cacheCfg, rdb)

	g := e.Group("/v1/users/friends", middleware.JWTAuth(ts))
	g.GET("", f.ListFriends, friendsLimiter, cache)
	g.PATCH("/:username", f.AddFriend)
	g.DELETE("/:username", f.RemoveFriend)
}
