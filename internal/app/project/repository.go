package project

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrProjectNotFound = errors.New("project not found")

type Repository interface {
	Create(project *Project) error
	GetByID(id uuid.UUID) (*Project, error)
	GetForUser(userID uuid.UUID) ([]*Project, error)
	Save(project *Project) error
	Delete(id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(project *Project) error {
	return r.db.Create(project).Error
}

func (r *repository) GetByID(id uuid.UUID) (*Project, error) {
	var project Project
	err := r.db.First(&project, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *repository) GetForUser(userID uuid.UUID) ([]*Project, error) {
	var projects []*Project
	member := fmt.Sprintf("[%q]", userID.String())
	err := r.db.
		Where("created_by = ? OR members @> ?", userID, member).
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}

func (r *repository) Save(project *Project) error {
	return r.db.Save(project).Error
}

func (r *repository) Delete(id uuid.UUID) error {
	return r.db.Delete(&Project{}, "id = ?", id).Error
}
