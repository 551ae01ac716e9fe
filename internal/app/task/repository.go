package task

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrTaskNotFound = errors.New("task not found")

type Repository interface {
	Create(task *Task) error
	GetByID(id uuid.UUID) (*Task, error)
	GetByBoard(boardID uuid.UUID) ([]*Task, error)
	GetByCollection(collectionID uuid.UUID) ([]*Task, error)
	GetSubtasks(parentTaskID uuid.UUID) ([]*Task, error)
	Save(task *Task) error
	Delete(id uuid.UUID) error
	DeleteSubtasks(parentTaskID uuid.UUID) error
	ReassignCollection(fromCollectionID, toCollectionID uuid.UUID) error
	ClearCollection(collectionID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(task *Task) error {
	return r.db.Create(task).Error
}

func (r *repository) GetByID(id uuid.UUID) (*Task, error) {
	var t Task
	err := r.db.First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) GetByBoard(boardID uuid.UUID) ([]*Task, error) {
	var tasks []*Task
	err := r.db.
		Where("board_id = ? AND is_subtask = ?", boardID, false).
		Order("\"order\" ASC, created_at ASC").
		Find(&tasks).Error
	return tasks, err
}

func (r *repository) GetByCollection(collectionID uuid.UUID) ([]*Task, error) {
	var tasks []*Task
	err := r.db.
		Where("collection_id = ? AND is_subtask = ?", collectionID, false).
		Order("\"order\" ASC, created_at ASC").
		Find(&tasks).Error
	return tasks, err
}

func (r *repository) GetSubtasks(parentTaskID uuid.UUID) ([]*Task, error) {
	var tasks []*Task
	err := r.db.
		Where("parent_task_id = ?", parentTaskID).
		Order("\"order\" ASC, created_at ASC").
		Find(&tasks).Error
	return tasks, err
}

func (r *repository) Save(task *Task) error {
	return r.db.Save(task).Error
}

func (r *repository) Delete(id uuid.UUID) error {
	result := r.db.Delete(&Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (r *repository) DeleteSubtasks(parentTaskID uuid.UUID) error {
	return r.db.Delete(&Task{}, "parent_task_id = ?", parentTaskID).Error
}

func (r *repository) ReassignCollection(fromCollectionID, toCollectionID uuid.UUID) error {
	return r.db.Model(&Task{}).
		Where("collection_id = ?", fromCollectionID).
		Update("collection_id", toCollectionID).Error
}

func (r *repository) ClearCollection(collectionID uuid.UUID) error {
	return r.db.Model(&Task{}).
		Where("collection_id = ?", collectionID).
		Update("collection_id", nil).Error
}
