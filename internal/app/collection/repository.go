package collection

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrCollectionNotFound = errors.New("collection not found")

type Repository interface {
	Create(col *Collection) error
	GetByID(id uuid.UUID) (*Collection, error)
	GetByProject(projectID uuid.UUID) ([]*Collection, error)
	CountByProject(projectID uuid.UUID) (int64, error)
	Save(col *Collection) error
	Delete(id uuid.UUID) error
	SaveOrder(id uuid.UUID, order int) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(col *Collection) error {
	return r.db.Create(col).Error
}

func (r *repository) GetByID(id uuid.UUID) (*Collection, error) {
	var col Collection
	err := r.db.First(&col, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCollectionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &col, nil
}

func (r *repository) GetByProject(projectID uuid.UUID) ([]*Collection, error) {
	var cols []*Collection
	err := r.db.
		Where("project_id = ?", projectID).
		Order("\"order\" ASC, created_at ASC").
		Find(&cols).Error
	return cols, err
}

func (r *repository) CountByProject(projectID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&Collection{}).Where("project_id = ?", projectID).Count(&count).Error
	return count, err
}

func (r *repository) Save(col *Collection) error {
	return r.db.Save(col).Error
}

func (r *repository) Delete(id uuid.UUID) error {
	result := r.db.Delete(&Collection{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCollectionNotFound
	}
	return nil
}

func (r *repository) SaveOrder(id uuid.UUID, order int) error {
	return r.db.Model(&Collection{}).Where("id = ?", id).Update("order", order).Error
}
