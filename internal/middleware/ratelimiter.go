package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"failoverlimit/internal/ratelimiter"
)

// Checker is the single entry point the middleware needs from the limiter.
// It never fails; degraded-mode decisions are visible only in the logs.
type Checker interface {
	Check(ctx context.Context, identifier string, cfg ratelimiter.Config) ratelimiter.Result
}

// RateLimiter enforces the given policy per client IP. The middleware is a
// pure pass-through around the engine: it maps the verdict onto status 429
// and the conventional rate-limit headers and carries no logic of its own.
func RateLimiter(engine Checker, cfg ratelimiter.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		res := engine.Check(c.Request.Context(), ip, cfg)

		c.Header("X-RateLimit-Limit", strconv.FormatInt(cfg.MaxRequests, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

		if !res.Allowed {
			c.Header("Retry-After", strconv.FormatInt(int64(res.RetryAfter.Seconds()), 10))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests",
			})
			return
		}

		c.Next()
	}
}
