package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/social-network-api/internal/config"
)

// captureWriter captures the response body while forwarding to the client.
// Once the body exceeds limit, skip is set and nothing is buffered for the
// rest of the response, partial fragments included.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	limit  int
	skip   bool
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if !cw.skip {
		if cw.limit <= 0 || cw.buf.Len()+len(b) <= cw.limit {
			cw.buf.Write(b)
		} else {
			cw.buf.Reset() // over budget, give up on caching this response
			cw.skip = true
		}
	}
	return cw.ResponseWriter.Write(b)
}

// cacheKey hashes route, query string and caller identity.  Friend
// listings differ per user, so the authenticated user id is always part
// of the key.  The route path stays in clear text so mutations can
// invalidate by prefix.
func cacheKey(cfg config.CacheConfig, c echo.Context) string {
	sum := sha1.Sum([]byte(c.Request().URL.RawQuery))
	return fmt.Sprintf("%s:%s:u%s:%x", cfg.Prefix, c.Path(),
		strconv.FormatUint(UserID(c), 10), sum[:8])
}

// NewResponseCache serves successful JSON GET responses from Redis for
// the configured TTL.  Only status 200 bodies are stored.  When Redis
// is unavailable the middleware is a pass-through.
func NewResponseCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[c.Request().Method] {
				return next(c)
			}
			ctx := c.Request().Context()
			key := cacheKey(cfg, c)

			if body, err := rdb.Get(ctx, key).Bytes(); err == nil {
				c.Response().Header().Set("X-Cache", "HIT")
				return c.JSONBlob(http.StatusOK, body)
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			if cw.status == http.StatusOK && cw.buf.Len() > 0 {
				_ = rdb.SetEx(context.Background(), key, cw.buf.Bytes(), cfg.TTL).Err()
			}
			return nil
		}
	}
}

// InvalidateCache drops every cached response under the given route
// prefix.  Mutation handlers call this so listings reflect writes
// before their TTL would have expired.
func InvalidateCache(ctx context.Context, rdb *redis.Client, cfg config.CacheConfig, routePrefix string) {
	if rdb == nil || !cfg.Enabled {
		return
	}
	iter := rdb.Scan(ctx, 0, cfg.Prefix+":"+routePrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		_ = rdb.Del(ctx, iter.Val()).Err()
	}
}
