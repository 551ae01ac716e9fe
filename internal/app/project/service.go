package project

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var ErrAccessDenied = errors.New("access denied")

type Service interface {
	CreateProject(creatorID uuid.UUID, name, description, color string) (*Project, error)
	ListProjects(userID uuid.UUID) ([]*Project, error)
	GetProject(userID, projectID uuid.UUID) (*Project, error)
	UpdateProject(userID, projectID uuid.UUID, name, description, color *string) (*Project, error)
	DeleteProject(userID, projectID uuid.UUID) error
	AddMember(userID, projectID, memberID uuid.UUID) (*Project, error)

	// Authorize is the access-control leaf reused by the board, task and
	// collection services: it loads the project and fails closed with
	// ErrProjectNotFound or ErrAccessDenied.
	Authorize(userID, projectID uuid.UUID) (*Project, error)
	// AuthorizeOwner additionally requires userID to be the project creator.
	AuthorizeOwner(userID, projectID uuid.UUID) (*Project, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Authorize(userID, projectID uuid.UUID) (*Project, error) {
	proj, err := s.repo.GetByID(projectID)
	if err != nil {
		return nil, err
	}
	if !proj.HasAccess(userID) {
		return nil, ErrAccessDenied
	}
	return proj, nil
}

func (s *service) AuthorizeOwner(userID, projectID uuid.UUID) (*Project, error) {
	proj, err := s.repo.GetByID(projectID)
	if err != nil {
		return nil, err
	}
	if !proj.IsOwnedBy(userID) {
		return nil, ErrAccessDenied
	}
	return proj, nil
}

func (s *service) CreateProject(creatorID uuid.UUID, name, description, color string) (*Project, error) {
	if name == "" {
		return nil, fmt.Errorf("project name is required")
	}
	if color == "" {
		color = "#3B82F6"
	}

	proj := &Project{
		Name:        name,
		Description: description,
		Color:       color,
		CreatedBy:   creatorID,
		Members:     []uuid.UUID{},
	}
	if err := s.repo.Create(proj); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return proj, nil
}

func (s *service) ListProjects(userID uuid.UUID) ([]*Project, error) {
	return s.repo.GetForUser(userID)
}

func (s *service) GetProject(userID, projectID uuid.UUID) (*Project, error) {
	return s.Authorize(userID, projectID)
}

func (s *service) UpdateProject(userID, projectID uuid.UUID, name, description, color *string) (*Project, error) {
	proj, err := s.Authorize(userID, projectID)
	if err != nil {
		return nil, err
	}

	if name != nil {
		proj.Name = *name
	}
	if description != nil {
		proj.Description = *description
	}
	if color != nil {
		proj.Color = *color
	}

	if err := s.repo.Save(proj); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return proj, nil
}

func (s *service) DeleteProject(userID, projectID uuid.UUID) error {
	if _, err := s.AuthorizeOwner(userID, projectID); err != nil {
		return err
	}
	return s.repo.Delete(projectID)
}

func (s *service) AddMember(userID, projectID, memberID uuid.UUID) (*Project, error) {
	proj, err := s.AuthorizeOwner(userID, projectID)
	if err != nil {
		return nil, err
	}

	for _, m := range proj.Members {
		if m == memberID {
			return proj, nil
		}
	}
	proj.Members = append(proj.Members, memberID)

	if err := s.repo.Save(proj); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}
	return proj, nil
}
