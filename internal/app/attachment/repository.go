package attachment

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrAttachmentNotFound = errors.New("attachment not found")

type Repository interface {
	Create(a *Attachment) error
	GetByID(id uuid.UUID) (*Attachment, error)
	GetByTask(taskID uuid.UUID) ([]*Attachment, error)
	Delete(id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(a *Attachment) error {
	return r.db.Create(a).Error
}

func (r *repository) GetByID(id uuid.UUID) (*Attachment, error) {
	var a Attachment
	err := r.db.First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAttachmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) GetByTask(taskID uuid.UUID) ([]*Attachment, error) {
	var attachments []*Attachment
	err := r.db.
		Where("task_id = ?", taskID).
		Order("created_at ASC").
		Find(&attachments).Error
	return attachments, err
}

func (r *repository) Delete(id uuid.UUID) error {
	result := r.db.Delete(&Attachment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAttachmentNotFound
	}
	return nil
}
