package attachment

import (
	"errors"
	"net/http"

	"flowboard/internal/app/project"
	"flowboard/internal/app/task"
	"flowboard/internal/auth"
	"flowboard/internal/middleware"
	"flowboard/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler interface {
	Upload(c *gin.Context)
	ListByTask(c *gin.Context)
	Download(c *gin.Context)
	Delete(c *gin.Context)
}

type handler struct {
	service Service
}

func NewHandler(service Service) Handler {
	return &handler{service: service}
}

func failFromErr(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrAttachmentNotFound):
		utils.Fail(c, http.StatusNotFound, "Attachment not found")
	case errors.Is(err, task.ErrTaskNotFound):
		utils.Fail(c, http.StatusNotFound, "Task not found")
	case errors.Is(err, project.ErrAccessDenied):
		utils.Fail(c, http.StatusForbidden, "Access denied to this attachment")
	case errors.Is(err, ErrStorageUnavailable):
		utils.Fail(c, http.StatusServiceUnavailable, "File storage is not configured")
	default:
		utils.Fail(c, http.StatusInternalServerError, fallback)
	}
}

func (h *handler) Upload(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid task ID")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "file is required")
		return
	}

	a, err := h.service.Upload(c.Request.Context(), auth.Actor{Identity: ident}, taskID, fileHeader)
	if err != nil {
		failFromErr(c, err, "Server error while uploading attachment")
		return
	}
	utils.OK(c, http.StatusCreated, a)
}

func (h *handler) ListByTask(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid task ID")
		return
	}

	attachments, err := h.service.ListByTask(ident.UserID, taskID)
	if err != nil {
		failFromErr(c, err, "Server error while fetching attachments")
		return
	}
	utils.OK(c, http.StatusOK, attachments)
}

func (h *handler) Download(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)
	attachmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid attachment ID")
		return
	}

	downloadURL, err := h.service.DownloadURL(c.Request.Context(), ident.UserID, attachmentID)
	if err != nil {
		failFromErr(c, err, "Server error while preparing download")
		return
	}
	utils.OK(c, http.StatusOK, gin.H{"url": downloadURL})
}

func (h *handler) Delete(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)
	attachmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid attachment ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), auth.Actor{Identity: ident}, attachmentID); err != nil {
		failFromErr(c, err, "Server error while deleting attachment")
		return
	}
	utils.OK(c, http.StatusOK, gin.H{"message": "Attachment deleted successfully"})
}
