package task

import (
	"errors"
	"net/http"

	"flowboard/internal/app/board"
	"flowboard/internal/app/project"
	"flowboard/internal/auth"
	"flowboard/internal/middleware"
	"flowboard/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler interface {
	ListBoardTasks(c *gin.Context)
	GetTask(c *gin.Context)
	CreateTask(c *gin.Context)
	UpdateTask(c *gin.Context)
	DeleteTask(c *gin.Context)
	MoveTask(c *gin.Context)
	ListSubtasks(c *gin.Context)
	CreateSubtask(c *gin.Context)
}

type handler struct {
	service Service
}

func NewHandler(service Service) Handler {
	return &handler{service: service}
}

func failFromErr(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrTaskNotFound):
		utils.Fail(c, http.StatusNotFound, "Task not found")
	case errors.Is(err, board.ErrBoardNotFound):
		utils.Fail(c, http.StatusNotFound, "Board not found")
	case errors.Is(err, board.ErrColumnNotFound):
		utils.Fail(c, http.StatusBadRequest, "Column not found on board")
	case errors.Is(err, project.ErrProjectNotFound):
		utils.Fail(c, http.StatusNotFound, "Project not found")
	case errors.Is(err, project.ErrAccessDenied):
		utils.Fail(c, http.StatusForbidden, "Access denied to this task")
	case errors.Is(err, ErrBoardMismatch), errors.Is(err, ErrInvalidMove):
		utils.Fail(c, http.StatusBadRequest, err.Error())
	default:
		utils.Fail(c, http.StatusInternalServerError, fallback)
	}
}

func (h *handler) ListBoardTasks(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)
	boardID, err := uuid.Parse(c.Query("boardId"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "boardId query parameter is required")
		return
	}

	tasks, err := h.service.ListBoardTasks(c.Request.Context(), ident.UserID, boardID)
	if err != nil {
		failFromErr(c, err, "Server error while fetching tasks")
		return
	}
	utils.OK(c, http.StatusOK, tasks)
}

func (h *handler) GetTask(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid task ID")
		return
	}

	t, err := h.service.GetTask(ident.UserID, taskID)
	if err != nil {
		failFromErr(c, err, "Server error while fetching task")
		return
	}
	utils.OK(c, http.StatusOK, t)
}

func (h *handler) CreateTask(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)

	var input CreateTaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.service.CreateTask(c.Request.Context(), auth.Actor{Identity: ident}, input)
	if err != nil {
		failFromErr(c, err, "Server error while creating task")
		return
	}
	utils.OK(c, http.StatusCreated, t)
}

func (h *handler) UpdateTask(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid task ID")
		return
	}

	var input UpdateTaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.service.UpdateTask(c.Request.Context(), auth.Actor{Identity: ident}, taskID, input)
	if err != nil {
		failFromErr(c, err, "Server error while updating task")
		return
	}
	utils.OK(c, http.StatusOK, t)
}

func (h *handler) DeleteTask(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid task ID")
		return
	}

	if err := h.service.DeleteTask(c.Request.Context(), auth.Actor{Identity: ident}, taskID); err != nil {
		failFromErr(c, err, "Server error while deleting task")
		return
	}
	utils.OK(c, http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// MoveTask is the REST entry point into the drag-and-drop reconciler.
func (h *handler) MoveTask(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid task ID")
		return
	}

	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	req.TaskID = taskID

	t, err := h.service.MoveTask(c.Request.Context(), auth.Actor{Identity: ident}, req)
	if err != nil {
		failFromErr(c, err, "Server error while moving task")
		return
	}
	utils.OK(c, http.StatusOK, t)
}

func (h *handler) ListSubtasks(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid task ID")
		return
	}

	subtasks, err := h.service.ListSubtasks(ident.UserID, taskID)
	if err != nil {
		failFromErr(c, err, "Server error while fetching subtasks")
		return
	}
	utils.OK(c, http.StatusOK, subtasks)
}

func (h *handler) CreateSubtask(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid task ID")
		return
	}

	var input CreateSubtaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	sub, err := h.service.CreateSubtask(c.Request.Context(), auth.Actor{Identity: ident}, taskID, input)
	if err != nil {
		failFromErr(c, err, "Server error while creating subtask")
		return
	}
	utils.OK(c, http.StatusCreated, sub)
}
