package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"flowboard/internal/app/board"
	"flowboard/internal/app/project"
	"flowboard/internal/auth"
	"flowboard/internal/providers/redis"
	"flowboard/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrBoardMismatch = errors.New("board does not belong to the referenced project")
	ErrInvalidMove   = errors.New("taskId, fromColumnId, toColumnId and boardId are required")
)

type CreateTaskInput struct {
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Priority     string      `json:"priority"`
	AssigneeID   *uuid.UUID  `json:"assignee"`
	ProjectID    uuid.UUID   `json:"projectId"`
	BoardID      uuid.UUID   `json:"boardId"`
	ColumnID     *uuid.UUID  `json:"columnId"`
	CollectionID *uuid.UUID  `json:"collectionId"`
	Labels       []Label     `json:"labels"`
	DueDate      *time.Time  `json:"dueDate"`
	Dependencies []uuid.UUID `json:"dependencies"`
}

type UpdateTaskInput struct {
	Title        *string      `json:"title"`
	Description  *string      `json:"description"`
	Priority     *string      `json:"priority"`
	AssigneeID   *uuid.UUID   `json:"assignee"`
	ColumnID     *uuid.UUID   `json:"columnId"`
	Position     *int         `json:"position"`
	CollectionID *uuid.UUID   `json:"collectionId"`
	Labels       *[]Label     `json:"labels"`
	DueDate      *time.Time   `json:"dueDate"`
	TimeTracked  *int64       `json:"timeTracked"`
	Dependencies *[]uuid.UUID `json:"dependencies"`
}

type CreateSubtaskInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	AssigneeID  *uuid.UUID `json:"assignee"`
	DueDate     *time.Time `json:"dueDate"`
}

// MoveRequest is a client-reported drag-and-drop move. FromColumnID and
// ToColumnID are both required; a same-column reorder sets them equal. A nil
// Position appends at the end of the destination column.
type MoveRequest struct {
	TaskID       uuid.UUID `json:"taskId"`
	FromColumnID uuid.UUID `json:"fromColumnId"`
	ToColumnID   uuid.UUID `json:"toColumnId"`
	Position     *int      `json:"position"`
	BoardID      uuid.UUID `json:"boardId"`
}

type Service interface {
	CreateTask(ctx context.Context, actor auth.Actor, input CreateTaskInput) (*Task, error)
	GetTask(userID, taskID uuid.UUID) (*Task, error)
	ListBoardTasks(ctx context.Context, userID, boardID uuid.UUID) ([]*Task, error)
	UpdateTask(ctx context.Context, actor auth.Actor, taskID uuid.UUID, input UpdateTaskInput) (*Task, error)
	DeleteTask(ctx context.Context, actor auth.Actor, taskID uuid.UUID) error
	MoveTask(ctx context.Context, actor auth.Actor, req MoveRequest) (*Task, error)
	CreateSubtask(ctx context.Context, actor auth.Actor, parentTaskID uuid.UUID, input CreateSubtaskInput) (*Task, error)
	ListSubtasks(userID, parentTaskID uuid.UUID) ([]*Task, error)
	Repo() Repository
}

type service struct {
	repo       Repository
	boardSvc   board.Service
	projectSvc project.Service
	eventBus   *utils.EventBus
	redisP     *redis.RedisProvider
	logger     *zap.SugaredLogger
}

func NewService(
	repo Repository,
	boardSvc board.Service,
	projectSvc project.Service,
	eventBus *utils.EventBus,
	redisP *redis.RedisProvider,
	logger *zap.Logger,
) Service {
	return &service{
		repo:       repo,
		boardSvc:   boardSvc,
		projectSvc: projectSvc,
		eventBus:   eventBus,
		redisP:     redisP,
		logger:     logger.Sugar(),
	}
}

// Repo exposes the repository for services that reassign or clear collection
// references in bulk without going through per-task broadcasting.
func (s *service) Repo() Repository {
	return s.repo
}

func (s *service) CreateTask(ctx context.Context, actor auth.Actor, input CreateTaskInput) (*Task, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("task title is required")
	}
	if input.Priority == "" {
		input.Priority = PriorityMedium
	}
	if !validPriority(input.Priority) {
		return nil, fmt.Errorf("priority must be one of low, medium, high")
	}

	// Fail closed before any write: project exists, initiator has access,
	// board belongs to the referenced project.
	if _, err := s.projectSvc.Authorize(actor.UserID, input.ProjectID); err != nil {
		return nil, err
	}
	b, _, err := s.boardSvc.Authorize(actor.UserID, input.BoardID)
	if err != nil {
		return nil, err
	}
	if b.ProjectID != input.ProjectID {
		return nil, ErrBoardMismatch
	}
	if input.ColumnID != nil && b.Columns.Find(*input.ColumnID) == nil {
		return nil, board.ErrColumnNotFound
	}

	t := &Task{
		Title:        input.Title,
		Description:  input.Description,
		Priority:     input.Priority,
		AssigneeID:   input.AssigneeID,
		ReporterID:   actor.UserID,
		ProjectID:    input.ProjectID,
		BoardID:      input.BoardID,
		ColumnID:     input.ColumnID,
		CollectionID: input.CollectionID,
		Labels:       input.Labels,
		DueDate:      input.DueDate,
		Dependencies: input.Dependencies,
	}
	if err := s.repo.Create(t); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	if input.ColumnID != nil {
		var idx int
		_, err := s.boardSvc.WithColumns(input.BoardID, func(b *board.Board) error {
			i, err := b.Columns.AppendTask(*input.ColumnID, t.ID)
			idx = i
			return err
		})
		if err != nil {
			// The column append is a second persistence step; if it fails
			// the half-created task must not stay behind unreferenced.
			if delErr := s.repo.Delete(t.ID); delErr != nil {
				s.logger.Errorw("Failed to compensate task create", "task_id", t.ID, "error", delErr)
			}
			return nil, fmt.Errorf("failed to place task in column: %w", err)
		}
		t.Order = idx
		if err := s.repo.Save(t); err != nil {
			return nil, fmt.Errorf("failed to persist task order: %w", err)
		}
	}

	s.invalidateBoardTasks(t.BoardID)

	s.eventBus.Publish(utils.Event{
		Name:          EventTaskCreated,
		BoardID:       t.BoardID.String(),
		ExcludeClient: actor.ClientID,
		Data: map[string]interface{}{
			"task":      t,
			"createdBy": actor.Identity,
			"timestamp": time.Now().UTC(),
		},
	})

	return t, nil
}

func (s *service) GetTask(userID, taskID uuid.UUID) (*Task, error) {
	t, err := s.repo.GetByID(taskID)
	if err != nil {
		return nil, err
	}
	if _, err := s.projectSvc.Authorize(userID, t.ProjectID); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) ListBoardTasks(ctx context.Context, userID, boardID uuid.UUID) ([]*Task, error) {
	if _, _, err := s.boardSvc.Authorize(userID, boardID); err != nil {
		return nil, err
	}

	cacheKey := s.boardTasksKey(boardID)
	if cached, err := s.redisP.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
		var tasks []*Task
		if json.Unmarshal([]byte(cached), &tasks) == nil {
			return tasks, nil
		}
	}

	tasks, err := s.repo.GetByBoard(boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tasks: %w", err)
	}

	if len(tasks) > 0 {
		if data, err := json.Marshal(tasks); err == nil {
			s.redisP.SetEX(ctx, cacheKey, data, 5*time.Minute)
		}
	}
	return tasks, nil
}

func (s *service) UpdateTask(ctx context.Context, actor auth.Actor, taskID uuid.UUID, input UpdateTaskInput) (*Task, error) {
	t, err := s.repo.GetByID(taskID)
	if err != nil {
		return nil, err
	}
	// Access can change between requests, so every call re-checks.
	if _, err := s.projectSvc.Authorize(actor.UserID, t.ProjectID); err != nil {
		return nil, err
	}

	// A column change inside a generic update is a move: the column lists
	// are reordered durably and the room hears task:moved, not task:updated.
	if input.ColumnID != nil && (t.ColumnID == nil || *t.ColumnID != *input.ColumnID) {
		fromID := uuid.Nil
		if t.ColumnID != nil {
			fromID = *t.ColumnID
		}
		moved, _, err := s.persistMove(actor, MoveRequest{
			TaskID:       taskID,
			FromColumnID: fromID,
			ToColumnID:   *input.ColumnID,
			Position:     input.Position,
			BoardID:      t.BoardID,
		})
		if err != nil {
			return nil, err
		}
		t = moved

		s.eventBus.Publish(utils.Event{
			Name:          EventTaskMoved,
			BoardID:       t.BoardID.String(),
			ExcludeClient: actor.ClientID,
			Data: map[string]interface{}{
				"task":         t,
				"fromColumnId": fromID,
				"toColumnId":   *input.ColumnID,
				"position":     t.Order,
				"boardId":      t.BoardID,
				"movedBy":      actor.Identity,
				"timestamp":    time.Now().UTC(),
			},
		})
	}

	changes := map[string]interface{}{}
	if input.Title != nil {
		t.Title = *input.Title
		changes["title"] = *input.Title
	}
	if input.Description != nil {
		t.Description = *input.Description
		changes["description"] = *input.Description
	}
	if input.Priority != nil {
		if !validPriority(*input.Priority) {
			return nil, fmt.Errorf("priority must be one of low, medium, high")
		}
		t.Priority = *input.Priority
		changes["priority"] = *input.Priority
	}
	if input.AssigneeID != nil {
		t.AssigneeID = input.AssigneeID
		changes["assignee"] = *input.AssigneeID
	}
	if input.CollectionID != nil {
		t.CollectionID = input.CollectionID
		changes["collectionId"] = *input.CollectionID
	}
	if input.Labels != nil {
		t.Labels = *input.Labels
		changes["labels"] = *input.Labels
	}
	if input.DueDate != nil {
		t.DueDate = input.DueDate
		changes["dueDate"] = *input.DueDate
	}
	if input.TimeTracked != nil {
		t.TimeTracked = *input.TimeTracked
		changes["timeTracked"] = *input.TimeTracked
	}
	if input.Dependencies != nil {
		t.Dependencies = *input.Dependencies
		changes["dependencies"] = *input.Dependencies
	}

	if len(changes) > 0 {
		if err := s.repo.Save(t); err != nil {
			return nil, fmt.Errorf("failed to update task: %w", err)
		}
		s.invalidateBoardTasks(t.BoardID)

		s.eventBus.Publish(utils.Event{
			Name:          EventTaskUpdated,
			BoardID:       t.BoardID.String(),
			ExcludeClient: actor.ClientID,
			Data: map[string]interface{}{
				"task":      t,
				"updatedBy": actor.Identity,
				"changes":   changes,
				"timestamp": time.Now().UTC(),
			},
		})
	}

	return t, nil
}

func (s *service) DeleteTask(ctx context.Context, actor auth.Actor, taskID uuid.UUID) error {
	t, err := s.repo.GetByID(taskID)
	if err != nil {
		return err
	}
	if _, err := s.projectSvc.Authorize(actor.UserID, t.ProjectID); err != nil {
		return err
	}

	// Drop the column reference before the task row so no column list is
	// ever left pointing at a deleted task.
	_, err = s.boardSvc.WithColumns(t.BoardID, func(b *board.Board) error {
		b.Columns.RemoveTask(taskID)
		return nil
	})
	if err != nil && !errors.Is(err, board.ErrBoardNotFound) {
		return fmt.Errorf("failed to detach task from column: %w", err)
	}

	if err := s.repo.DeleteSubtasks(taskID); err != nil {
		return fmt.Errorf("failed to delete subtasks: %w", err)
	}
	if err := s.repo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.invalidateBoardTasks(t.BoardID)

	s.eventBus.Publish(utils.Event{
		Name:          EventTaskDeleted,
		BoardID:       t.BoardID.String(),
		ExcludeClient: actor.ClientID,
		Data: map[string]interface{}{
			"taskId": taskID,
			// Just enough identity for clients to update their UI
			// without a refetch.
			"task":      map[string]interface{}{"id": taskID, "title": t.Title},
			"deletedBy": actor.Identity,
			"timestamp": time.Now().UTC(),
		},
	})

	return nil
}

// MoveTask is the drag-and-drop reconciler. The optimistic task:moved goes
// out to the rest of the room before anything is persisted; after that,
// exactly one of the confirming task:moved or move-failed always follows.
func (s *service) MoveTask(ctx context.Context, actor auth.Actor, req MoveRequest) (*Task, error) {
	if req.TaskID == uuid.Nil || req.FromColumnID == uuid.Nil || req.ToColumnID == uuid.Nil || req.BoardID == uuid.Nil {
		// Validation failures are reported synchronously to the caller;
		// nothing was broadcast, so nothing needs reverting.
		return nil, ErrInvalidMove
	}

	s.eventBus.Publish(utils.Event{
		Name:          EventTaskMoved,
		BoardID:       req.BoardID.String(),
		ExcludeClient: actor.ClientID,
		Data: map[string]interface{}{
			"taskId":       req.TaskID,
			"fromColumnId": req.FromColumnID,
			"toColumnId":   req.ToColumnID,
			"position":     req.Position,
			"boardId":      req.BoardID,
			"movedBy":      actor.Identity,
			"timestamp":    time.Now().UTC(),
		},
	})

	moved, finalPos, err := s.persistMove(actor, req)
	if err != nil {
		s.logger.Warnw("Move failed after optimistic broadcast",
			"task_id", req.TaskID,
			"board_id", req.BoardID,
			"error", err,
		)
		s.eventBus.Publish(utils.Event{
			Name:    EventMoveFailed,
			BoardID: req.BoardID.String(),
			Data: map[string]interface{}{
				"taskId":    req.TaskID,
				"error":     err.Error(),
				"timestamp": time.Now().UTC(),
			},
		})
		return nil, err
	}

	// Confirmation carries the authoritative task and reaches the initiator
	// too: it is the one client that must reconcile its optimistic local
	// state against the persisted order.
	s.eventBus.Publish(utils.Event{
		Name:    EventTaskMoved,
		BoardID: req.BoardID.String(),
		Data: map[string]interface{}{
			"task":         moved,
			"fromColumnId": req.FromColumnID,
			"toColumnId":   req.ToColumnID,
			"position":     finalPos,
			"boardId":      req.BoardID,
			"movedBy":      actor.Identity,
			"timestamp":    time.Now().UTC(),
		},
	})

	return moved, nil
}

// persistMove durably reorders the column lists and the task row. It runs
// under the board's mutation lock so concurrent moves against the same
// columns serialize.
func (s *service) persistMove(actor auth.Actor, req MoveRequest) (*Task, int, error) {
	t, err := s.repo.GetByID(req.TaskID)
	if err != nil {
		return nil, 0, err
	}
	if _, err := s.projectSvc.Authorize(actor.UserID, t.ProjectID); err != nil {
		return nil, 0, err
	}
	if t.BoardID != req.BoardID {
		return nil, 0, ErrBoardMismatch
	}

	pos := -1
	if req.Position != nil {
		pos = *req.Position
	}

	var finalPos int
	_, err = s.boardSvc.WithColumns(req.BoardID, func(b *board.Board) error {
		if b.Columns.Find(req.ToColumnID) == nil {
			return board.ErrColumnNotFound
		}
		b.Columns.RemoveTask(req.TaskID)
		idx, err := b.Columns.InsertTask(req.ToColumnID, req.TaskID, pos)
		finalPos = idx
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	t.ColumnID = &req.ToColumnID
	// The column list is the source of truth; the numeric order field is
	// derived from the final index on every write.
	t.Order = finalPos
	if err := s.repo.Save(t); err != nil {
		return nil, 0, fmt.Errorf("failed to persist moved task: %w", err)
	}

	s.invalidateBoardTasks(req.BoardID)

	fresh, err := s.repo.GetByID(req.TaskID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to reload moved task: %w", err)
	}
	return fresh, finalPos, nil
}

func (s *service) CreateSubtask(ctx context.Context, actor auth.Actor, parentTaskID uuid.UUID, input CreateSubtaskInput) (*Task, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("subtask title is required")
	}
	if input.Priority == "" {
		input.Priority = PriorityMedium
	}

	parent, err := s.repo.GetByID(parentTaskID)
	if err != nil {
		return nil, err
	}
	if _, err := s.projectSvc.Authorize(actor.UserID, parent.ProjectID); err != nil {
		return nil, err
	}

	sub := &Task{
		Title:        input.Title,
		Description:  input.Description,
		Priority:     input.Priority,
		AssigneeID:   input.AssigneeID,
		ReporterID:   actor.UserID,
		ProjectID:    parent.ProjectID,
		BoardID:      parent.BoardID,
		CollectionID: parent.CollectionID,
		ParentTaskID: &parentTaskID,
		IsSubtask:    true,
		DueDate:      input.DueDate,
	}
	if err := s.repo.Create(sub); err != nil {
		return nil, fmt.Errorf("failed to create subtask: %w", err)
	}

	s.eventBus.Publish(utils.Event{
		Name:          EventSubtaskCreated,
		BoardID:       parent.BoardID.String(),
		ExcludeClient: actor.ClientID,
		Data: map[string]interface{}{
			"task":         sub,
			"parentTaskId": parentTaskID,
			"createdBy":    actor.Identity,
			"timestamp":    time.Now().UTC(),
		},
	})

	return sub, nil
}

func (s *service) ListSubtasks(userID, parentTaskID uuid.UUID) ([]*Task, error) {
	parent, err := s.repo.GetByID(parentTaskID)
	if err != nil {
		return nil, err
	}
	if _, err := s.projectSvc.Authorize(userID, parent.ProjectID); err != nil {
		return nil, err
	}
	return s.repo.GetSubtasks(parentTaskID)
}

func (s *service) boardTasksKey(boardID uuid.UUID) string {
	return fmt.Sprintf("tasks:board:%s", boardID)
}

func (s *service) invalidateBoardTasks(boardID uuid.UUID) {
	s.redisP.Del(context.Background(), s.boardTasksKey(boardID))
}
