package handler

import (
	"errors"
	"io"
	"net/http"

	"lms-api/internal/services"
	"lms-api/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

// writeError renders err with the status and message the service layer assigns to it.
// Unexpected errors are attached to the context for middleware.ErrorHandler to log and
// answered with a generic message.
func writeError(c *gin.Context, err error) {
	status := services.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, httpdto.NewErrorResponse(services.PublicMessage(err)))
}

// bindJSON decodes the request body into req. An empty body decodes as {}.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(httpdto.MsgInvalidJSON))
		return false
	}
	return true
}
