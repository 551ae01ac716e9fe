package project

import (
	"errors"
	"net/http"

	"flowboard/internal/middleware"
	"flowboard/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler interface {
	ListProjects(c *gin.Context)
	GetProject(c *gin.Context)
	CreateProject(c *gin.Context)
	UpdateProject(c *gin.Context)
	DeleteProject(c *gin.Context)
	AddMember(c *gin.Context)
}

type handler struct {
	service Service
}

func NewHandler(service Service) Handler {
	return &handler{service: service}
}

func failFromErr(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrProjectNotFound):
		utils.Fail(c, http.StatusNotFound, "Project not found")
	case errors.Is(err, ErrAccessDenied):
		utils.Fail(c, http.StatusForbidden, "Access denied to this project")
	default:
		utils.Fail(c, http.StatusInternalServerError, fallback)
	}
}

func (h *handler) ListProjects(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)

	projects, err := h.service.ListProjects(ident.UserID)
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Server error while fetching projects")
		return
	}
	utils.OK(c, http.StatusOK, projects)
}

func (h *handler) GetProject(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid project ID")
		return
	}

	proj, err := h.service.GetProject(ident.UserID, projectID)
	if err != nil {
		failFromErr(c, err, "Server error while fetching project")
		return
	}
	utils.OK(c, http.StatusOK, proj)
}

func (h *handler) CreateProject(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)

	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		Color       string `json:"color"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "Project name is required")
		return
	}

	proj, err := h.service.CreateProject(ident.UserID, req.Name, req.Description, req.Color)
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Server error while creating project")
		return
	}
	utils.OK(c, http.StatusCreated, proj)
}

func (h *handler) UpdateProject(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid project ID")
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Color       *string `json:"color"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	proj, err := h.service.UpdateProject(ident.UserID, projectID, req.Name, req.Description, req.Color)
	if err != nil {
		failFromErr(c, err, "Server error while updating project")
		return
	}
	utils.OK(c, http.StatusOK, proj)
}

func (h *handler) DeleteProject(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid project ID")
		return
	}

	if err := h.service.DeleteProject(ident.UserID, projectID); err != nil {
		failFromErr(c, err, "Server error while deleting project")
		return
	}
	utils.OK(c, http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

func (h *handler) AddMember(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid project ID")
		return
	}

	var req struct {
		MemberID uuid.UUID `json:"memberId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "memberId is required")
		return
	}

	proj, err := h.service.AddMember(ident.UserID, projectID, req.MemberID)
	if err != nil {
		failFromErr(c, err, "Server error while adding member")
		return
	}
	utils.OK(c, http.StatusOK, proj)
}
