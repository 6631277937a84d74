package middleware

import (
	"net/http"

	"lms-api/internal/transport/httpdto"
	"lms-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler logs errors attached with c.Error and writes a JSON body when the handler
// did not write one itself.
func ErrorHandler(l *logger.Logger) gin.HandlerFunc {
	if l == nil {
		l = logger.GetGlobalLogger()
	}
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		log := l.FromContext(c.Request.Context())
		for _, ginErr := range c.Errors {
			log.Error("request error",
				zap.String("method", c.Request.Method),
				zap.String("path", c.FullPath()),
				zap.Error(ginErr.Err),
			)
		}
		if c.Writer.Written() {
			return
		}
		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			status = http.StatusInternalServerError
		}
		c.JSON(status, httpdto.NewErrorResponse("internal server error"))
	}
}

// Recovery converts panics into a 500 with the usual error body.
func Recovery(l *logger.Logger) gin.HandlerFunc {
	if l == nil {
		l = logger.GetGlobalLogger()
	}
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		l.FromContext(c.Request.Context()).Error("panic recovered", zap.Any("panic", recovered))
		c.AbortWithStatusJSON(http.StatusInternalServerError, httpdto.NewErrorResponse("internal server error"))
	})
}
