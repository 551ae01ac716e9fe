package task

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type Label struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type Task struct {
	ID           uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey"`
	Title        string      `json:"title" gorm:"not null"`
	Description  string      `json:"description,omitempty"`
	Priority     string      `json:"priority" gorm:"not null;default:'medium'"`
	AssigneeID   *uuid.UUID  `json:"assignee,omitempty" gorm:"type:uuid;index"`
	ReporterID   uuid.UUID   `json:"reporter" gorm:"type:uuid;not null;index"`
	ProjectID    uuid.UUID   `json:"projectId" gorm:"type:uuid;not null;index:idx_tasks_project_subtask"`
	BoardID      uuid.UUID   `json:"boardId" gorm:"type:uuid;not null;index:idx_tasks_board_column"`
	ColumnID     *uuid.UUID  `json:"columnId,omitempty" gorm:"type:uuid;index:idx_tasks_board_column"`
	CollectionID *uuid.UUID  `json:"collectionId,omitempty" gorm:"type:uuid;index"`
	ParentTaskID *uuid.UUID  `json:"parentTaskId,omitempty" gorm:"type:uuid;index"`
	IsSubtask    bool        `json:"isSubtask" gorm:"not null;default:false;index:idx_tasks_project_subtask"`
	Order        int         `json:"order" gorm:"not null;default:0"`
	Labels       []Label     `json:"labels" gorm:"type:jsonb;serializer:json"`
	DueDate      *time.Time  `json:"dueDate,omitempty"`
	TimeTracked  int64       `json:"timeTracked" gorm:"not null;default:0"`
	Dependencies []uuid.UUID `json:"dependencies" gorm:"type:jsonb;serializer:json"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Labels == nil {
		t.Labels = []Label{}
	}
	if t.Dependencies == nil {
		t.Dependencies = []uuid.UUID{}
	}
	return nil
}

func validPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}
