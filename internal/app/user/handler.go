package user

import (
	"errors"
	"net/http"

	"flowboard/internal/middleware"
	"flowboard/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	Me(c *gin.Context)
}

type handler struct {
	service Service
	logger  *zap.SugaredLogger
}

func NewHandler(service Service, logger *zap.Logger) Handler {
	return &handler{service: service, logger: logger.Sugar()}
}

func (h *handler) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "username, email and password are required")
		return
	}

	usr, token, err := h.service.Register(req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) || errors.Is(err, ErrUsernameTaken) {
			utils.Fail(c, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Warnw("Register failed", "email", req.Email, "error", err)
		utils.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	utils.OK(c, http.StatusCreated, gin.H{"user": usr, "token": token})
}

func (h *handler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "email and password are required")
		return
	}

	usr, token, err := h.service.Login(req.Email, req.Password)
	if err != nil {
		utils.Fail(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	utils.OK(c, http.StatusOK, gin.H{"user": usr, "token": token})
}

func (h *handler) Me(c *gin.Context) {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		utils.Fail(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	usr, err := h.service.GetByID(ident.UserID)
	if err != nil {
		utils.Fail(c, http.StatusNotFound, "user not found")
		return
	}

	utils.OK(c, http.StatusOK, usr)
}
