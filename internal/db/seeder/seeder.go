package seeder

import (
	"flowboard/internal/app/board"
	"flowboard/internal/app/project"
	"flowboard/internal/app/user"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Seeder struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewSeeder(db *gorm.DB, logger *zap.Logger) *Seeder {
	return &Seeder{
		db:     db,
		logger: logger,
	}
}

func (s *Seeder) Seed() error {
	s.logger.Info("Running database seeders...")

	if err := s.seedDemoWorkspace(); err != nil {
		return err
	}

	s.logger.Info("Database seeders completed successfully")
	return nil
}

// seedDemoWorkspace creates one demo user with a project and a board so a
// fresh instance is browsable immediately.
func (s *Seeder) seedDemoWorkspace() error {
	var count int64
	s.db.Model(&user.User{}).Count(&count)
	if count > 0 {
		s.logger.Info("Users already exist, skipping seed")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	demo := user.User{
		Username:     "demo",
		Email:        "demo@flowboard.local",
		PasswordHash: string(hash),
	}
	if err := s.db.Create(&demo).Error; err != nil {
		return err
	}

	proj := project.Project{
		Name:        "Getting Started",
		Description: "A sample project to explore Flowboard",
		CreatedBy:   demo.ID,
	}
	if err := s.db.Create(&proj).Error; err != nil {
		return err
	}

	b := board.Board{
		Name:      "Main Board",
		ProjectID: proj.ID,
		Columns:   board.DefaultColumns(),
	}
	if err := s.db.Create(&b).Error; err != nil {
		return err
	}

	s.logger.Info("Seeded demo workspace",
		zap.String("user", demo.Username),
		zap.String("project", proj.Name),
	)
	return nil
}
