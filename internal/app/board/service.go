package board

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"flowboard/internal/app/project"
	"flowboard/internal/auth"
	"flowboard/internal/providers/redis"
	"flowboard/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrNoColumns = errors.New("board must have at least one column")

const EventBoardColumnsUpdated = "board:columns_updated"

type Service interface {
	CreateBoard(userID uuid.UUID, name string, projectID uuid.UUID, columns ColumnList) (*Board, error)
	ListByProject(userID, projectID uuid.UUID) ([]*Board, error)
	GetBoard(ctx context.Context, userID, boardID uuid.UUID) (*Board, error)
	UpdateBoard(userID, boardID uuid.UUID, name *string) (*Board, error)
	UpdateColumns(ctx context.Context, actor auth.Actor, boardID uuid.UUID, columns ColumnList) (*Board, error)
	DeleteBoard(userID, boardID uuid.UUID) error

	// Authorize resolves a board together with its owning project and runs
	// the project access check. Board access is always project access.
	Authorize(userID, boardID uuid.UUID) (*Board, *project.Project, error)

	// WithColumns runs fn on a freshly loaded board under that board's
	// mutation lock and persists the result. All column-document writes
	// (moves, appends, removals) go through here so they serialize per
	// board instead of racing.
	WithColumns(boardID uuid.UUID, fn func(*Board) error) (*Board, error)
}

type service struct {
	repo       Repository
	projectSvc project.Service
	redisP     *redis.RedisProvider
	eventBus   *utils.EventBus
	logger     *zap.SugaredLogger
	locks      *lockTable
}

func NewService(repo Repository, projectSvc project.Service, redisP *redis.RedisProvider, eventBus *utils.EventBus, logger *zap.Logger) Service {
	return &service{
		repo:       repo,
		projectSvc: projectSvc,
		redisP:     redisP,
		eventBus:   eventBus,
		logger:     logger.Sugar(),
		locks:      newLockTable(),
	}
}

func (s *service) CreateBoard(userID uuid.UUID, name string, projectID uuid.UUID, columns ColumnList) (*Board, error) {
	if name == "" {
		return nil, fmt.Errorf("board name is required")
	}
	if _, err := s.projectSvc.Authorize(userID, projectID); err != nil {
		return nil, err
	}

	if len(columns) == 0 {
		columns = DefaultColumns()
	} else {
		columns.Normalize()
	}

	b := &Board{
		Name:      name,
		ProjectID: projectID,
		Columns:   columns,
	}
	if err := s.repo.Create(b); err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}
	return b, nil
}

func (s *service) ListByProject(userID, projectID uuid.UUID) ([]*Board, error) {
	if _, err := s.projectSvc.Authorize(userID, projectID); err != nil {
		return nil, err
	}
	return s.repo.GetByProject(projectID)
}

func (s *service) GetBoard(ctx context.Context, userID, boardID uuid.UUID) (*Board, error) {
	b, _, err := s.Authorize(userID, boardID)
	if err != nil {
		return nil, err
	}

	cacheKey := s.cacheKey(boardID)
	if cached, err := s.redisP.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
		var snapshot Board
		if json.Unmarshal([]byte(cached), &snapshot) == nil {
			return &snapshot, nil
		}
	}

	if data, err := json.Marshal(b); err == nil {
		s.redisP.SetEX(ctx, cacheKey, data, 5*time.Minute)
	}
	return b, nil
}

func (s *service) Authorize(userID, boardID uuid.UUID) (*Board, *project.Project, error) {
	b, err := s.repo.GetByID(boardID)
	if err != nil {
		return nil, nil, err
	}
	proj, err := s.projectSvc.Authorize(userID, b.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	return b, proj, nil
}

func (s *service) UpdateBoard(userID, boardID uuid.UUID, name *string) (*Board, error) {
	b, _, err := s.Authorize(userID, boardID)
	if err != nil {
		return nil, err
	}

	if name != nil {
		b.Name = *name
	}
	if err := s.repo.Save(b); err != nil {
		return nil, fmt.Errorf("failed to update board: %w", err)
	}
	s.invalidate(boardID)
	return b, nil
}

func (s *service) UpdateColumns(ctx context.Context, actor auth.Actor, boardID uuid.UUID, columns ColumnList) (*Board, error) {
	if len(columns) == 0 {
		return nil, ErrNoColumns
	}
	if _, _, err := s.Authorize(actor.UserID, boardID); err != nil {
		return nil, err
	}

	columns.Normalize()

	b, err := s.WithColumns(boardID, func(b *Board) error {
		b.Columns = columns
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.eventBus.Publish(utils.Event{
		Name:          EventBoardColumnsUpdated,
		BoardID:       boardID.String(),
		ExcludeClient: actor.ClientID,
		Data: map[string]interface{}{
			"boardId":   boardID,
			"columns":   b.Columns,
			"updatedBy": actor.Identity,
			"timestamp": time.Now().UTC(),
		},
	})

	return b, nil
}

func (s *service) DeleteBoard(userID, boardID uuid.UUID) error {
	b, err := s.repo.GetByID(boardID)
	if err != nil {
		return err
	}
	// Only the project creator may delete a board.
	if _, err := s.projectSvc.AuthorizeOwner(userID, b.ProjectID); err != nil {
		return err
	}

	if err := s.repo.Delete(boardID); err != nil {
		return fmt.Errorf("failed to delete board: %w", err)
	}
	s.invalidate(boardID)
	return nil
}

func (s *service) WithColumns(boardID uuid.UUID, fn func(*Board) error) (*Board, error) {
	lock := s.locks.get(boardID)
	lock.Lock()
	defer lock.Unlock()

	b, err := s.repo.GetByID(boardID)
	if err != nil {
		return nil, err
	}
	if err := fn(b); err != nil {
		return nil, err
	}
	if err := s.repo.Save(b); err != nil {
		return nil, fmt.Errorf("failed to persist board columns: %w", err)
	}

	s.invalidate(boardID)
	return b, nil
}

func (s *service) cacheKey(boardID uuid.UUID) string {
	return fmt.Sprintf("board:%s", boardID)
}

func (s *service) invalidate(boardID uuid.UUID) {
	s.redisP.Del(context.Background(), s.cacheKey(boardID))
}
