package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/rollcall/internal/infrastructure/ratelimit"
	"github.com/orris-inc/rollcall/internal/shared/errors"
	"github.com/orris-inc/rollcall/internal/shared/logger"
	"github.com/orris-inc/rollcall/internal/shared/utils"
)

// RateLimit throttles requests per client IP. A nil limiter or an unreachable
// redis lets the request through.
func RateLimit(limiter ratelimit.Limiter, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		allowed, err := limiter.Allow(c.Request.Context(), "ip:"+c.ClientIP())
		if err != nil {
			log.Warnw("rate limiter unavailable, allowing request", "error", err, "path", c.Request.URL.Path)
			c.Next()
			return
		}

		if !allowed {
			utils.ErrorResponseWithError(c, errors.NewRateLimitedError("too many scan attempts, please try again later"))
			c.Abort()
			return
		}

		c.Next()
	}
}
