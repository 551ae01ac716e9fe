package collection

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
	Create(c *gin.Context)
	ListByProject(c *gin.Context)
	Get(c *gin.Context)
	ListTasks(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	Reorder(c *gin.Context)
}

type handler struct {
	service Service
}

func NewHandler(service Service) Handler {
	return &handler{service: service}
}

func failFromErr(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrCollectionNotFound):
		utils.Fail(c, http.StatusNotFound, "Collection not found")
	case errors.Is(err, project.ErrProjectNotFound):
		utils.Fail(c, http.StatusNotFound, "Project not found")
	case errors.Is(err, project.ErrAccessDenied):
		utils.Fail(c, http.StatusForbidden, "Access denied to this collection")
	case errors.Is(err, ErrDuplicateName):
		utils.Fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrIncompleteOrder):
		utils.Fail(c, http.StatusBadRequest, err.Error())
	default:
		utils.Fail(c, http.StatusInternalServerError, fallback)
	}
}

func (h *handler) Create(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)

	var input CreateCollectionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	col, err := h.service.CreateCollection(c.Request.Context(), auth.Actor{Identity: ident}, input)
	if err != nil {
		failFromErr(c, err, "Server error while creating collection")
		return
	}
	utils.OK(c, http.StatusCreated, col)
}

func (h *handler) ListByProject(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)
	projectID, err := uuid.Parse(c.Param("projectId"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid project ID")
		return
	}

	cols, err := h.service.ListByProject(ident.UserID, projectID)
	if err != nil {
		failFromErr(c, err, "Server error while fetching collections")
		return
	}
	utils.OK(c, http.StatusOK, cols)
}

func (h *handler) Get(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)
	collectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid collection ID")
		return
	}

	col, err := h.service.GetCollection(ident.UserID, collectionID)
	if err != nil {
		failFromErr(c, err, "Server error while fetching collection")
		return
	}
	utils.OK(c, http.StatusOK, col)
}

func (h *handler) ListTasks(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)
	collectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid collection ID")
		return
	}

	tasks, err := h.service.ListCollectionTasks(ident.UserID, collectionID)
	if err != nil {
		failFromErr(c, err, "Server error while fetching collection tasks")
		return
	}
	utils.OK(c, http.StatusOK, tasks)
}

func (h *handler) Update(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)
	collectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid collection ID")
		return
	}

	var input UpdateCollectionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	col, err := h.service.UpdateCollection(c.Request.Context(), auth.Actor{Identity: ident}, collectionID, input)
	if err != nil {
		failFromErr(c, err, "Server error while updating collection")
		return
	}
	utils.OK(c, http.StatusOK, col)
}

func (h *handler) Delete(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)
	collectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid collection ID")
		return
	}

	var moveTasksTo *uuid.UUID
	if raw := c.Query("moveTasksTo"); raw != "" {
		target, err := uuid.Parse(raw)
		if err != nil {
			utils.Fail(c, http.StatusBadRequest, "invalid moveTasksTo collection ID")
			return
		}
		moveTasksTo = &target
	}

	if err := h.service.DeleteCollection(c.Request.Context(), auth.Actor{Identity: ident}, collectionID, moveTasksTo); err != nil {
		failFromErr(c, err, "Server error while deleting collection")
		return
	}
	utils.OK(c, http.StatusOK, gin.H{"message": "Collection deleted successfully"})
}

func (h *handler) Reorder(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)

	var input ReorderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	cols, err := h.service.Reorder(c.Request.Context(), auth.Actor{Identity: ident}, input)
	if err != nil {
		failFromErr(c, err, "Server error while reordering collections")
		return
	}
	utils.OK(c, http.StatusOK, cols)
}
