package collection

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"flowboard/internal/app/project"
	"flowboard/internal/app/task"
	"flowboard/internal/auth"
	"flowboard/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrDuplicateName   = errors.New("a collection with this name already exists in the project")
	ErrIncompleteOrder = errors.New("reorder must list every collection of the project exactly once")
)

type CreateCollectionInput struct {
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	ProjectID   uuid.UUID `json:"projectId" binding:"required"`
}

type UpdateCollectionInput struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
	IsArchived  *bool   `json:"isArchived,omitempty"`
}

type ReorderInput struct {
	ProjectID     uuid.UUID   `json:"projectId" binding:"required"`
	CollectionIDs []uuid.UUID `json:"collectionIds" binding:"required"`
}

type Service interface {
	CreateCollection(ctx context.Context, actor auth.Actor, input CreateCollectionInput) (*Collection, error)
	ListByProject(userID, projectID uuid.UUID) ([]*Collection, error)
	GetCollection(userID, collectionID uuid.UUID) (*Collection, error)
	ListCollectionTasks(userID, collectionID uuid.UUID) ([]*task.Task, error)
	UpdateCollection(ctx context.Context, actor auth.Actor, collectionID uuid.UUID, input UpdateCollectionInput) (*Collection, error)
	DeleteCollection(ctx context.Context, actor auth.Actor, collectionID uuid.UUID, moveTasksTo *uuid.UUID) error
	Reorder(ctx context.Context, actor auth.Actor, input ReorderInput) ([]*Collection, error)
}

type service struct {
	repo       Repository
	projectSvc project.Service
	taskRepo   task.Repository
	eventBus   *utils.EventBus
	logger     *zap.SugaredLogger
}

func NewService(repo Repository, projectSvc project.Service, taskRepo task.Repository, eventBus *utils.EventBus, logger *zap.Logger) Service {
	return &service{
		repo:       repo,
		projectSvc: projectSvc,
		taskRepo:   taskRepo,
		eventBus:   eventBus,
		logger:     logger.Sugar(),
	}
}

func (s *service) CreateCollection(ctx context.Context, actor auth.Actor, input CreateCollectionInput) (*Collection, error) {
	if utf8.RuneCountInString(input.Name) < 1 || utf8.RuneCountInString(input.Name) > 100 {
		return nil, fmt.Errorf("collection name must be between 1 and 100 characters")
	}
	if _, err := s.projectSvc.Authorize(actor.UserID, input.ProjectID); err != nil {
		return nil, err
	}

	count, err := s.repo.CountByProject(input.ProjectID)
	if err != nil {
		return nil, err
	}

	color := input.Color
	if color == "" {
		color = "#6366F1"
	}

	col := &Collection{
		Name:        input.Name,
		Description: input.Description,
		Color:       color,
		ProjectID:   input.ProjectID,
		CreatedBy:   actor.UserID,
		Order:       int(count),
	}
	if err := s.repo.Create(col); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}

	s.eventBus.Publish(utils.Event{
		Name:          EventCollectionCreated,
		ProjectID:     col.ProjectID.String(),
		ExcludeClient: actor.ClientID,
		Data:          col,
	})
	return col, nil
}

func (s *service) ListByProject(userID, projectID uuid.UUID) ([]*Collection, error) {
	if _, err := s.projectSvc.Authorize(userID, projectID); err != nil {
		return nil, err
	}
	return s.repo.GetByProject(projectID)
}

func (s *service) GetCollection(userID, collectionID uuid.UUID) (*Collection, error) {
	col, err := s.repo.GetByID(collectionID)
	if err != nil {
		return nil, err
	}
	if _, err := s.projectSvc.Authorize(userID, col.ProjectID); err != nil {
		return nil, err
	}
	return col, nil
}

func (s *service) ListCollectionTasks(userID, collectionID uuid.UUID) ([]*task.Task, error) {
	if _, err := s.GetCollection(userID, collectionID); err != nil {
		return nil, err
	}
	return s.taskRepo.GetByCollection(collectionID)
}

func (s *service) UpdateCollection(ctx context.Context, actor auth.Actor, collectionID uuid.UUID, input UpdateCollectionInput) (*Collection, error) {
	col, err := s.GetCollection(actor.UserID, collectionID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if utf8.RuneCountInString(*input.Name) < 1 || utf8.RuneCountInString(*input.Name) > 100 {
			return nil, fmt.Errorf("collection name must be between 1 and 100 characters")
		}
		col.Name = *input.Name
	}
	if input.Description != nil {
		col.Description = *input.Description
	}
	if input.Color != nil {
		col.Color = *input.Color
	}
	if input.IsArchived != nil {
		col.IsArchived = *input.IsArchived
	}

	if err := s.repo.Save(col); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}

	s.eventBus.Publish(utils.Event{
		Name:          EventCollectionUpdated,
		ProjectID:     col.ProjectID.String(),
		ExcludeClient: actor.ClientID,
		Data:          col,
	})
	return col, nil
}

// DeleteCollection removes the collection. Tasks that referenced it are
// reassigned to moveTasksTo when given, otherwise detached.
func (s *service) DeleteCollection(ctx context.Context, actor auth.Actor, collectionID uuid.UUID, moveTasksTo *uuid.UUID) error {
	col, err := s.GetCollection(actor.UserID, collectionID)
	if err != nil {
		return err
	}

	if moveTasksTo != nil {
		target, err := s.repo.GetByID(*moveTasksTo)
		if err != nil {
			return err
		}
		if target.ProjectID != col.ProjectID {
			return fmt.Errorf("target collection belongs to a different project")
		}
		if err := s.taskRepo.ReassignCollection(collectionID, *moveTasksTo); err != nil {
			return err
		}
	} else {
		if err := s.taskRepo.ClearCollection(collectionID); err != nil {
			return err
		}
	}

	if err := s.repo.Delete(collectionID); err != nil {
		return err
	}

	payload := map[string]interface{}{"id": col.ID, "name": col.Name}
	if moveTasksTo != nil {
		payload["movedTasksTo"] = *moveTasksTo
	}
	s.eventBus.Publish(utils.Event{
		Name:          EventCollectionDeleted,
		ProjectID:     col.ProjectID.String(),
		ExcludeClient: actor.ClientID,
		Data:          payload,
	})
	return nil
}

// Reorder rewrites collection order from the position of each ID in the
// request. The list must cover the project's collections exactly.
func (s *service) Reorder(ctx context.Context, actor auth.Actor, input ReorderInput) ([]*Collection, error) {
	if _, err := s.projectSvc.Authorize(actor.UserID, input.ProjectID); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByProject(input.ProjectID)
	if err != nil {
		return nil, err
	}
	if len(input.CollectionIDs) != len(existing) {
		return nil, ErrIncompleteOrder
	}
	known := make(map[uuid.UUID]bool, len(existing))
	for _, col := range existing {
		known[col.ID] = true
	}
	seen := make(map[uuid.UUID]bool, len(input.CollectionIDs))
	for _, id := range input.CollectionIDs {
		if !known[id] || seen[id] {
			return nil, ErrIncompleteOrder
		}
		seen[id] = true
	}

	for idx, id := range input.CollectionIDs {
		if err := s.repo.SaveOrder(id, idx); err != nil {
			return nil, err
		}
	}

	cols, err := s.repo.GetByProject(input.ProjectID)
	if err != nil {
		return nil, err
	}

	s.eventBus.Publish(utils.Event{
		Name:          EventCollectionReordered,
		ProjectID:     input.ProjectID.String(),
		ExcludeClient: actor.ClientID,
		Data:          cols,
	})
	return cols, nil
}
