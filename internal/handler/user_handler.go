package handler

import (
	"net/http"

	"lms-api/internal/services"
	"lms-api/internal/transport/httpdto"
	"lms-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service *services.UserService
	logger  *logger.Logger
}

func NewUserHandler(service *services.UserService, l *logger.Logger) *UserHandler {
	if l == nil {
		l = logger.GetGlobalLogger()
	}
	return &UserHandler{service: service, logger: l}
}

// Register handles POST /users/register
func (h *UserHandler) Register(c *gin.Context) {
	var req httpdto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	userID, err := h.service.Register(c.Request.Context(), req.ToInput())
	if err != nil {
		writeError(c, err)
		return
	}
	h.logger.FromContext(c.Request.Context()).Sugar().Infof("user registered: %s", userID)

	c.JSON(http.StatusCreated, httpdto.UserIDResponse{Message: httpdto.MsgRegistered, UserID: userID})
}

// Login handles POST /users/login
func (h *UserHandler) Login(c *gin.Context) {
	var req httpdto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	userID, err := h.service.Login(c.Request.Context(), req.ToInput())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.UserIDResponse{Message: httpdto.MsgLoggedIn, UserID: userID})
}
