package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lms-api/internal/redis"
	"lms-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubLimiter struct {
	result *redis.RateLimitResult
	err    error
	calls  int
	resets []string
}

func (s *stubLimiter) AllowAuth(ctx context.Context, ip string) (*redis.RateLimitResult, error) {
	s.calls++
	return s.result, s.err
}

func (s *stubLimiter) ResetAuth(ctx context.Context, ip string) error {
	s.resets = append(s.resets, ip)
	return nil
}

func observedLogger() (*logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return &logger.Logger{Logger: zap.New(core)}, logs
}

func perform(engine *gin.Engine, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRequestIDMiddleware(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestIDMiddleware())
	var seen string
	engine.GET("/x", func(c *gin.Context) {
		seen, _ = c.Request.Context().Value(logger.RequestIdKey).(string)
		c.Status(http.StatusOK)
	})

	w := perform(engine, http.MethodGet, "/x", http.Header{RequestIDHeader: {"abc-123"}})
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "abc-123", seen)

	w = perform(engine, http.MethodGet, "/x", nil)
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
	assert.Equal(t, w.Header().Get(RequestIDHeader), seen)
}

func TestRateLimitMiddlewareOnlyGuardsAuthPaths(t *testing.T) {
	limiter := &stubLimiter{result: &redis.RateLimitResult{Allowed: false, Limit: 1, ResetIn: 30 * time.Second}}
	engine := gin.New()
	engine.Use(RateLimitMiddleware(limiter, logger.NewNop()))
	engine.POST("/users/login", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/courses", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := perform(engine, http.MethodPost, "/users/login", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, w.Body.String())
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "30", w.Header().Get("X-RateLimit-Reset"))

	w = perform(engine, http.MethodGet, "/courses", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, limiter.calls)
}

func TestRateLimitMiddlewareFailsOpen(t *testing.T) {
	limiter := &stubLimiter{err: errors.New("redis down")}
	engine := gin.New()
	engine.Use(RateLimitMiddleware(limiter, logger.NewNop()))
	engine.POST("/users/register", func(c *gin.Context) { c.Status(http.StatusCreated) })

	w := perform(engine, http.MethodPost, "/users/register", nil)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRateLimitMiddlewareResetsAfterSuccessfulLogin(t *testing.T) {
	limiter := &stubLimiter{result: &redis.RateLimitResult{Allowed: true, Limit: 5, Remaining: 4}}
	engine := gin.New()
	engine.Use(RateLimitMiddleware(limiter, logger.NewNop()))
	status := http.StatusUnauthorized
	engine.POST("/users/login", func(c *gin.Context) { c.Status(status) })
	engine.POST("/users/register", func(c *gin.Context) { c.Status(http.StatusOK) })

	perform(engine, http.MethodPost, "/users/login", nil)
	assert.Empty(t, limiter.resets)

	perform(engine, http.MethodPost, "/users/register", nil)
	assert.Empty(t, limiter.resets)

	status = http.StatusOK
	perform(engine, http.MethodPost, "/users/login", nil)
	require.Len(t, limiter.resets, 1)
	assert.Equal(t, "192.0.2.1", limiter.resets[0])
	assert.Equal(t, 3, limiter.calls)
}

func TestRecoveryReturnsJSON(t *testing.T) {
	engine := gin.New()
	engine.Use(Recovery(logger.NewNop()))
	engine.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := perform(engine, http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}

func TestErrorHandlerWritesBodyForUnhandledErrors(t *testing.T) {
	engine := gin.New()
	engine.Use(ErrorHandler(logger.NewNop()))
	engine.GET("/fail", func(c *gin.Context) { _ = c.Error(errors.New("db exploded")) })

	w := perform(engine, http.MethodGet, "/fail", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}

func TestErrorHandlerLogsEveryAttachedError(t *testing.T) {
	l, logs := observedLogger()
	engine := gin.New()
	engine.Use(RequestIDMiddleware(), ErrorHandler(l))
	engine.GET("/fail", func(c *gin.Context) {
		_ = c.Error(errors.New("first"))
		_ = c.Error(errors.New("second"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	})

	w := perform(engine, http.MethodGet, "/fail", http.Header{RequestIDHeader: {"req-7"}})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	entries := logs.FilterMessage("request error").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "first", entries[0].ContextMap()["error"])
	assert.Equal(t, "second", entries[1].ContextMap()["error"])
	assert.Equal(t, "req-7", entries[0].ContextMap()["request_id"])
	assert.Equal(t, "/fail", entries[0].ContextMap()["path"])
}

func TestCORSMiddlewareAllowsConfiguredOrigin(t *testing.T) {
	engine := gin.New()
	engine.Use(CORSMiddleware([]string{"http://localhost:3000"}))
	engine.GET("/courses", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := perform(engine, http.MethodOptions, "/courses", http.Header{
		"Origin":                        {"http://localhost:3000"},
		"Access-Control-Request-Method": {"GET"},
	})
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	w = perform(engine, http.MethodGet, "/courses", http.Header{"Origin": {"http://evil.test"}})
	assert.Equal(t, http.StatusForbidden, w.Code)
}
