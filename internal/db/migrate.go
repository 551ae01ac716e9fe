package db

import (
	"flowboard/internal/app/attachment"
	"flowboard/internal/app/board"
	"flowboard/internal/app/collection"
	"flowboard/internal/app/project"
	"flowboard/internal/app/task"
	"flowboard/internal/app/user"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	if err := db.AutoMigrate(
		&user.User{},
		&project.Project{},
		&board.Board{},
		&task.Task{},
		&collection.Collection{},
		&attachment.Attachment{},
	); err != nil {
		return err
	}

	logger.Info("Database migrations completed")
	return nil
}
