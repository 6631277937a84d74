package middleware

import (
	"context"
	"net/http"
	"strconv"

	"lms-api/internal/redis"
	"lms-api/internal/transport/httpdto"
	"lms-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthLimiter counts attempts against the credential endpoints.
type AuthLimiter interface {
	AllowAuth(ctx context.Context, ip string) (*redis.RateLimitResult, error)
	ResetAuth(ctx context.Context, ip string) error
}

// RateLimitMiddleware limits register and login attempts per client IP. A successful
// login clears the counter. If the limiter itself fails the request is let through.
func RateLimitMiddleware(limiter AuthLimiter, l *logger.Logger) gin.HandlerFunc {
	if l == nil {
		l = logger.GetGlobalLogger()
	}
	return func(c *gin.Context) {
		if !isAuthEndpoint(c.Request.URL.Path) {
			c.Next()
			return
		}

		result, err := limiter.AllowAuth(c.Request.Context(), c.ClientIP())
		if err != nil {
			l.FromContext(c.Request.Context()).Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}

		setRateLimitHeaders(c, result)

		if !result.Allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, httpdto.NewErrorResponse("rate limit exceeded"))
			return
		}

		c.Next()

		if c.Request.URL.Path == loginPath && c.Writer.Status() == http.StatusOK {
			if err := limiter.ResetAuth(c.Request.Context(), c.ClientIP()); err != nil {
				l.FromContext(c.Request.Context()).Warn("rate limit reset failed", zap.Error(err))
			}
		}
	}
}

const (
	registerPath = "/users/register"
	loginPath    = "/users/login"
)

func setRateLimitHeaders(c *gin.Context, result *redis.RateLimitResult) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(int64(result.ResetIn.Seconds()), 10))
}

func isAuthEndpoint(path string) bool {
	switch path {
	case registerPath, loginPath:
		return true
	}
	return false
}
