package board

import (
	"errors"
	"net/http"

	"flowboard/internal/app/project"
	"flowboard/internal/auth"
	"flowboard/internal/middleware"
	"flowboard/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler interface {
	ListByProject(c *gin.Context)
	GetBoard(c *gin.Context)
	CreateBoard(c *gin.Context)
	UpdateBoard(c *gin.Context)
	UpdateColumns(c *gin.Context)
	DeleteBoard(c *gin.Context)
}

type handler struct {
	service Service
}

func NewHandler(service Service) Handler {
	return &handler{service: service}
}

func failFromErr(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrBoardNotFound):
		utils.Fail(c, http.StatusNotFound, "Board not found")
	case errors.Is(err, project.ErrProjectNotFound):
		utils.Fail(c, http.StatusNotFound, "Project not found")
	case errors.Is(err, project.ErrAccessDenied):
		utils.Fail(c, http.StatusForbidden, "Access denied to this board")
	case errors.Is(err, ErrNoColumns):
		utils.Fail(c, http.StatusBadRequest, err.Error())
	default:
		utils.Fail(c, http.StatusInternalServerError, fallback)
	}
}

func (h *handler) ListByProject(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)
	projectID, err := uuid.Parse(c.Query("projectId"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "projectId query parameter is required")
		return
	}

	boards, err := h.service.ListByProject(ident.UserID, projectID)
	if err != nil {
		failFromErr(c, err, "Server error while fetching boards")
		return
	}
	utils.OK(c, http.StatusOK, boards)
}

func (h *handler) GetBoard(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)
	boardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid board ID")
		return
	}

	b, err := h.service.GetBoard(c.Request.Context(), ident.UserID, boardID)
	if err != nil {
		failFromErr(c, err, "Server error while fetching board")
		return
	}
	utils.OK(c, http.StatusOK, b)
}

func (h *handler) CreateBoard(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)

	var req struct {
		Name      string     `json:"name" binding:"required"`
		ProjectID uuid.UUID  `json:"projectId" binding:"required"`
		Columns   ColumnList `json:"columns"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "Board name and project ID are required")
		return
	}

	b, err := h.service.CreateBoard(ident.UserID, req.Name, req.ProjectID, req.Columns)
	if err != nil {
		failFromErr(c, err, "Server error while creating board")
		return
	}
	utils.OK(c, http.StatusCreated, b)
}

func (h *handler) UpdateBoard(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)
	boardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid board ID")
		return
	}

	var req struct {
		Name *string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	b, err := h.service.UpdateBoard(ident.UserID, boardID, req.Name)
	if err != nil {
		failFromErr(c, err, "Server error while updating board")
		return
	}
	utils.OK(c, http.StatusOK, b)
}

// UpdateColumns replaces the whole column set; it is the REST entry point
// used by the column drag-and-drop surface.
func (h *handler) UpdateColumns(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)
	boardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid board ID")
		return
	}

	var req struct {
		Columns ColumnList `json:"columns" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "Columns array is required")
		return
	}

	b, err := h.service.UpdateColumns(c.Request.Context(), auth.Actor{Identity: ident}, boardID, req.Columns)
	if err != nil {
		failFromErr(c, err, "Server error while updating board columns")
		return
	}
	utils.OK(c, http.StatusOK, b)
}

func (h *handler) DeleteBoard(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)
	boardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid board ID")
		return
	}

	if err := h.service.DeleteBoard(ident.UserID, boardID); err != nil {
		if errors.Is(err, project.ErrAccessDenied) {
			utils.Fail(c, http.StatusForbidden, "Only project creator can delete boards")
			return
		}
		failFromErr(c, err, "Server error while deleting board")
		return
	}
	utils.OK(c, http.StatusOK, gin.H{"message": "Board deleted successfully"})
}
