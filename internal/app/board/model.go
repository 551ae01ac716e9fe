package board

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrColumnNotFound = errors.New("column not found")

// Column is a named lane on a board. TaskIDs is the single source of truth
// for intra-column task order; the numeric Order field on tasks is derived
// from it on every write.
type Column struct {
	ID      uuid.UUID   `json:"id"`
	Name    string      `json:"name"`
	Color   string      `json:"color"`
	Order   int         `json:"order"`
	TaskIDs []uuid.UUID `json:"taskIds"`
}

// ColumnList is persisted as one json document on the board row, so a column
// mutation is a single-row read-modify-write, like the embedded array it
// models.
type ColumnList []Column

type Board struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string     `json:"name" gorm:"not null"`
	ProjectID uuid.UUID  `json:"projectId" gorm:"type:uuid;not null;index"`
	Columns   ColumnList `json:"columns" gorm:"type:jsonb;serializer:json;not null"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (b *Board) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// DefaultColumns returns the three lanes every new board starts with unless
// the caller supplies its own.
func DefaultColumns() ColumnList {
	return ColumnList{
		{ID: uuid.New(), Name: "To Do", Color: "#EF4444", Order: 0, TaskIDs: []uuid.UUID{}},
		{ID: uuid.New(), Name: "In Progress", Color: "#F59E0B", Order: 1, TaskIDs: []uuid.UUID{}},
		{ID: uuid.New(), Name: "Done", Color: "#10B981", Order: 2, TaskIDs: []uuid.UUID{}},
	}
}

// Find returns a pointer into the list for in-place mutation.
func (l ColumnList) Find(columnID uuid.UUID) *Column {
	for i := range l {
		if l[i].ID == columnID {
			return &l[i]
		}
	}
	return nil
}

// ColumnOf returns the column currently holding taskID, or nil. A task id
// lives in at most one column's list across the whole board.
func (l ColumnList) ColumnOf(taskID uuid.UUID) *Column {
	for i := range l {
		for _, id := range l[i].TaskIDs {
			if id == taskID {
				return &l[i]
			}
		}
	}
	return nil
}

// RemoveTask deletes taskID from every column list it appears in and reports
// whether anything was removed. Sweeping all columns (not just the reported
// source) is what keeps the at-most-one-column invariant self-healing.
func (l ColumnList) RemoveTask(taskID uuid.UUID) bool {
	removed := false
	for i := range l {
		ids := l[i].TaskIDs
		for j := 0; j < len(ids); j++ {
			if ids[j] == taskID {
				ids = append(ids[:j], ids[j+1:]...)
				j--
				removed = true
			}
		}
		l[i].TaskIDs = ids
	}
	return removed
}

// InsertTask places taskID into the column at position and returns the final
// index. A negative position appends; a position past the end clamps to
// append. The caller must have removed the task from its previous column
// first (RemoveTask), otherwise the board invariant breaks.
func (l ColumnList) InsertTask(columnID, taskID uuid.UUID, position int) (int, error) {
	col := l.Find(columnID)
	if col == nil {
		return 0, ErrColumnNotFound
	}

	if position < 0 || position > len(col.TaskIDs) {
		position = len(col.TaskIDs)
	}

	col.TaskIDs = append(col.TaskIDs, uuid.Nil)
	copy(col.TaskIDs[position+1:], col.TaskIDs[position:])
	col.TaskIDs[position] = taskID

	return position, nil
}

// AppendTask adds taskID at the end of the column.
func (l ColumnList) AppendTask(columnID, taskID uuid.UUID) (int, error) {
	return l.InsertTask(columnID, taskID, -1)
}

// Normalize assigns sequential Order values and fills in missing column ids,
// used when a client submits a full replacement column set.
func (l ColumnList) Normalize() {
	for i := range l {
		if l[i].ID == uuid.Nil {
			l[i].ID = uuid.New()
		}
		if l[i].TaskIDs == nil {
			l[i].TaskIDs = []uuid.UUID{}
		}
		l[i].Order = i
	}
}
