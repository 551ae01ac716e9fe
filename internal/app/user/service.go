package user

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"flowboard/internal/auth"
	"flowboard/internal/config"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type Service interface {
	Register(username, email, password string) (*User, string, error)
	Login(email, password string) (*User, string, error)
	GetByID(id uuid.UUID) (*User, error)
}

type service struct {
	repo Repository
	cfg  *config.Config
}

func NewService(repo Repository, cfg *config.Config) Service {
	return &service{repo: repo, cfg: cfg}
}

func (s *service) Register(username, email, password string) (*User, string, error) {
	nameLength := utf8.RuneCountInString(username)
	if nameLength < 2 || nameLength > 32 {
		return nil, "", fmt.Errorf("username must be between 2 and 32 characters, got %d", nameLength)
	}
	if len(password) < 8 {
		return nil, "", fmt.Errorf("password must be at least 8 characters")
	}

	if _, err := s.repo.GetByEmail(email); err == nil {
		return nil, "", ErrEmailTaken
	}
	if _, err := s.repo.GetByUsername(username); err == nil {
		return nil, "", ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	usr := &User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(usr); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := auth.GenerateToken(usr.ID, usr.Username, s.cfg.JWTSecret, s.cfg.JWTExpiry)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return usr, token, nil
}

func (s *service) Login(email, password string) (*User, string, error) {
	usr, err := s.repo.GetByEmail(email)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(usr.ID, usr.Username, s.cfg.JWTSecret, s.cfg.JWTExpiry)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return usr, token, nil
}

func (s *service) GetByID(id uuid.UUID) (*User, error) {
	return s.repo.GetByID(id)
}
