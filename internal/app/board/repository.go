package board

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrBoardNotFound = errors.New("board not found")

type Repository interface {
	Create(board *Board) error
	GetByID(id uuid.UUID) (*Board, error)
	GetByProject(projectID uuid.UUID) ([]*Board, error)
	Save(board *Board) error
	Delete(id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(board *Board) error {
	return r.db.Create(board).Error
}

func (r *repository) GetByID(id uuid.UUID) (*Board, error) {
	var board Board
	err := r.db.First(&board, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBoardNotFound
	}
	if err != nil {
		return nil, err
	}
	return &board, nil
}

func (r *repository) GetByProject(projectID uuid.UUID) ([]*Board, error) {
	var boards []*Board
	err := r.db.
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&boards).Error
	return boards, err
}

func (r *repository) Save(board *Board) error {
	return r.db.Save(board).Error
}

func (r *repository) Delete(id uuid.UUID) error {
	return r.db.Delete(&Board{}, "id = ?", id).Error
}
