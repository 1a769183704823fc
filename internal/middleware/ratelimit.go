package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"clique/internal/models"
	"clique/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// RateLimitKeyPrefix namespaces the counters in Redis.
const RateLimitKeyPrefix = "clique:rl:"

// FailPolicy defines the behavior when the rate limit store (Redis) is unavailable.
type FailPolicy int

const (
	// FailOpen allows the request to proceed if Redis is unavailable.
	FailOpen FailPolicy = iota
	// FailClosed blocks the request (503 Service Unavailable) if Redis is unavailable.
	FailClosed
)

// DefaultRateLimitTimeout bounds the Redis round trip of one check.
const DefaultRateLimitTimeout = 150 * time.Millisecond

// ErrNoLimiter is returned by CheckRateLimit without a Redis client.
var ErrNoLimiter = errors.New("redis client is nil")

// RateLimitBypassed reports whether env skips rate limiting.
func RateLimitBypassed(env string) bool {
	switch env {
	case "", "test", "development", "stress":
		return true
	}
	return false
}

// CheckRateLimit counts one hit for id on resource and reports whether it
// is within limit for the current window.
func CheckRateLimit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	if rdb == nil {
		return false, ErrNoLimiter
	}

	key := fmt.Sprintf("%s%s:%s", RateLimitKeyPrefix, resource, id)

	cnt, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if cnt == 1 {
		rdb.Expire(ctx, key, window)
	}
	return cnt <= int64(limit), nil
}

// RateLimitConfig configures RateLimit.
type RateLimitConfig struct {
	Env      string
	Limit    int
	Window   time.Duration
	Policy   FailPolicy
	Resource string
	// Timeout bounds each check. Zero means DefaultRateLimitTimeout.
	Timeout time.Duration
}

// RateLimit returns a Fiber middleware enforcing cfg.Limit requests per
// cfg.Window. It keys by session when present, otherwise by remote IP.
func RateLimit(rdb *redis.Client, cfg RateLimitConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if RateLimitBypassed(cfg.Env) || cfg.Limit <= 0 {
			return c.Next()
		}

		id := "ip:" + c.IP()
		if session := SessionFrom(c); session != "" {
			id = "session:" + session
		}
		resource := cfg.Resource
		if resource == "" {
			resource = c.Path()
		}

		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultRateLimitTimeout
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		allowed, err := CheckRateLimit(ctx, rdb, resource, id, cfg.Limit, cfg.Window)
		cancel()
		if err != nil {
			if cfg.Policy == FailClosed {
				observability.GlobalLogger.WarnContext(c.UserContext(), "rate limit unavailable",
					slog.String("resource", resource),
					slog.String("error", err.Error()),
				)
				return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{
					Error: "rate limit unavailable",
					Code:  models.CodeInternal,
				})
			}
			return c.Next()
		}

		if !allowed {
			return models.RespondWithError(c, fiber.StatusTooManyRequests, models.NewRateLimitedError())
		}
		return c.Next()
	}
}
