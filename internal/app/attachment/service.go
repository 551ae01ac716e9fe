package attachment

import (
	"context"
	"errors"
	"mime/multipart"

	"flowboard/internal/app/task"
	"flowboard/internal/auth"
	"flowboard/internal/providers/minio"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrStorageUnavailable is returned when the server runs without object
// storage (MinIO init failed at startup).
var ErrStorageUnavailable = errors.New("file storage is not configured")

type Service interface {
	Upload(ctx context.Context, actor auth.Actor, taskID uuid.UUID, fileHeader *multipart.FileHeader) (*Attachment, error)
	ListByTask(userID, taskID uuid.UUID) ([]*Attachment, error)
	DownloadURL(ctx context.Context, userID, attachmentID uuid.UUID) (string, error)
	Delete(ctx context.Context, actor auth.Actor, attachmentID uuid.UUID) error
}

type service struct {
	repo    Repository
	taskSvc task.Service
	minioP  *minio.MinioProvider
	logger  *zap.SugaredLogger
}

func NewService(repo Repository, taskSvc task.Service, minioP *minio.MinioProvider, logger *zap.Logger) Service {
	return &service{
		repo:    repo,
		taskSvc: taskSvc,
		minioP:  minioP,
		logger:  logger.Sugar(),
	}
}

func (s *service) Upload(ctx context.Context, actor auth.Actor, taskID uuid.UUID, fileHeader *multipart.FileHeader) (*Attachment, error) {
	if s.minioP == nil {
		return nil, ErrStorageUnavailable
	}
	if _, err := s.taskSvc.GetTask(actor.UserID, taskID); err != nil {
		return nil, err
	}

	objectName, fileURL, err := s.minioP.UploadFile(ctx, fileHeader)
	if err != nil {
		return nil, err
	}

	a := &Attachment{
		TaskID:      taskID,
		Filename:    fileHeader.Filename,
		ObjectName:  objectName,
		URL:         fileURL,
		Size:        fileHeader.Size,
		ContentType: fileHeader.Header.Get("Content-Type"),
		UploadedBy:  actor.UserID,
	}
	if err := s.repo.Create(a); err != nil {
		// Orphaned objects are worse than a failed request; clean up.
		if delErr := s.minioP.DeleteObject(ctx, objectName); delErr != nil {
			s.logger.Warnw("failed to remove orphaned attachment object",
				"object", objectName, "error", delErr)
		}
		return nil, err
	}
	return a, nil
}

func (s *service) ListByTask(userID, taskID uuid.UUID) ([]*Attachment, error) {
	if _, err := s.taskSvc.GetTask(userID, taskID); err != nil {
		return nil, err
	}
	return s.repo.GetByTask(taskID)
}

func (s *service) DownloadURL(ctx context.Context, userID, attachmentID uuid.UUID) (string, error) {
	if s.minioP == nil {
		return "", ErrStorageUnavailable
	}
	a, err := s.repo.GetByID(attachmentID)
	if err != nil {
		return "", err
	}
	if _, err := s.taskSvc.GetTask(userID, a.TaskID); err != nil {
		return "", err
	}
	return s.minioP.PresignedURL(ctx, a.ObjectName, a.Filename)
}

func (s *service) Delete(ctx context.Context, actor auth.Actor, attachmentID uuid.UUID) error {
	a, err := s.repo.GetByID(attachmentID)
	if err != nil {
		return err
	}
	if _, err := s.taskSvc.GetTask(actor.UserID, a.TaskID); err != nil {
		return err
	}
	if err := s.repo.Delete(attachmentID); err != nil {
		return err
	}
	if s.minioP == nil {
		return nil
	}
	if err := s.minioP.DeleteObject(ctx, a.ObjectName); err != nil {
		s.logger.Warnw("failed to remove attachment object",
			"object", a.ObjectName, "error", err)
	}
	return nil
}
