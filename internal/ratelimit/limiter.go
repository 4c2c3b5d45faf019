// Package ratelimit implements a fixed-window request counter backed by a
// shared Redis store, so the limit holds across concurrent service instances.
package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// incrScript increments the counter and arms the window expiry in one atomic
// step. Doing both server-side closes the gap where a crash between INCR and
// EXPIRE would leave a counter that never resets.
var incrScript = redis.NewScript(`
local current = redis.call('INCR', KEYS[1])
if current == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return current
`)

// Limiter caps request counts per key within a fixed time window. The window
// resets implicitly when the Redis key expires; the limiter holds no state
// of its own.
type Limiter struct {
	rdb    *redis.Client
	times  int
	window time.Duration
}

// New creates a limiter allowing at most times requests per window per key.
func New(rdb *redis.Client, times int, window time.Duration) *Limiter {
	return &Limiter{rdb: rdb, times: times, window: window}
}

// Allow increments the counter for key and reports whether the request is
// within the window's budget. Concurrent callers cannot slip past the limit:
// the increment-and-check is atomic on the Redis side.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	n, err := incrScript.Run(ctx, l.rdb, []string{key}, l.window.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("rate counter: %w", err)
	}
	return n <= int64(l.times), nil
}

// Middleware guards a route with the limiter, keyed by route path and client
// address. Over-limit requests are rejected before the handler runs; a
// counter-store failure rejects with 503 rather than admitting traffic.
func (l *Limiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := fmt.Sprintf("rate:%s:%s", c.Path(), c.RealIP())
			ok, err := l.Allow(c.Request().Context(), key)
			if err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "Rate limiter unavailable")
			}
			if !ok {
				return echo.NewHTTPError(http.StatusTooManyRequests, "Too Many Requests")
			}
			return next(c)
		}
	}
}
