package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"lms-api/internal/transport/httpdto"
	"lms-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Checker reports whether a backing service is reachable.
type Checker func(ctx context.Context) error

const healthTimeout = 2 * time.Second

type HealthHandler struct {
	checks map[string]Checker
	logger *logger.Logger
}

func NewHealthHandler(checks map[string]Checker, l *logger.Logger) *HealthHandler {
	if l == nil {
		l = logger.GetGlobalLogger()
	}
	return &HealthHandler{checks: checks, logger: l}
}

// Health handles GET /health. Any failing check turns the response into a 503.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := httpdto.HealthResponse{Status: "ok", Checks: make(map[string]string, len(names))}
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			h.logger.FromContext(ctx).Warn("health check failed", zap.String("check", name), zap.Error(err))
			resp.Checks[name] = "down"
			resp.Status = "degraded"
			continue
		}
		resp.Checks[name] = "up"
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}

// Ping handles GET /ping
func (h *HealthHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, httpdto.MessageResponse{Message: "pong"})
}
