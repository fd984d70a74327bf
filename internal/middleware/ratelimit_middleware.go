package middleware

import (
	"net/http"
	"strconv"

	"courier-chat/internal/redis"
	"courier-chat/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware throttles credential endpoints per client IP.
func RateLimitMiddleware(limiter *redis.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isAuthEndpoint(c.Request.URL.Path) {
			c.Next()
			return
		}

		result, err := limiter.AllowAuth(c.Request.Context(), c.ClientIP())
		if err != nil {
			c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("rate limit error", "INTERNAL_ERROR"))
			c.Abort()
			return
		}

		setRateLimitHeaders(c, result)

		if !result.Allowed {
			c.JSON(http.StatusTooManyRequests, httpdto.NewErrorResponse("rate limit exceeded", "RATE_LIMITED"))
			c.Abort()
			return
		}

		c.Next()
	}
}

func setRateLimitHeaders(c *gin.Context, result *redis.RateLimitResult) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(int64(result.ResetIn.Seconds()), 10))
}

func isAuthEndpoint(path string) bool {
	switch path {
	case "/api/v1/users/login", "/api/v1/users/register", "/api/v1/users/refresh":
		return true
	}
	return false
}
