package app

import (
	"flowboard/internal/app/attachment"
	"flowboard/internal/app/board"
	"flowboard/internal/app/collection"
	"flowboard/internal/app/health"
	"flowboard/internal/app/project"
	"flowboard/internal/app/task"
	"flowboard/internal/app/user"
	"flowboard/internal/config"
	"flowboard/internal/db"
	"flowboard/internal/db/seeder"
	"flowboard/internal/gateways/websocket"
	"flowboard/internal/providers/minio"
	"flowboard/internal/providers/redis"
	"flowboard/internal/router"
	"flowboard/internal/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Application struct {
	Router *router.Router
	DB     *gorm.DB
}

func Bootstrap(cfg *config.Config, logger *zap.Logger) (*Application, error) {
	dbConn, err := db.Connect(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(dbConn, logger); err != nil {
		return nil, err
	}

	seed := seeder.NewSeeder(dbConn, logger)
	if err := seed.Seed(); err != nil {
		logger.Warn("Failed to run seeders", zap.Error(err))
	}

	redisProvider := redis.NewRedisProvider(cfg.RedisURL, logger, cfg.RedisTTL)
	minioProvider, err := minio.NewMinioProvider(cfg, logger)
	if err != nil {
		logger.Warn("Failed to initialize MinIO provider", zap.Error(err))
		minioProvider = nil
	}
	eventBus := utils.NewEventBus()

	userRepo := user.NewRepository(dbConn)
	projectRepo := project.NewRepository(dbConn)
	boardRepo := board.NewRepository(dbConn)
	taskRepo := task.NewRepository(dbConn)
	collectionRepo := collection.NewRepository(dbConn)
	attachmentRepo := attachment.NewRepository(dbConn)

	userService := user.NewService(userRepo, cfg)
	projectService := project.NewService(projectRepo)
	boardService := board.NewService(boardRepo, projectService, redisProvider, eventBus, logger)
	taskService := task.NewService(taskRepo, boardService, projectService, eventBus, redisProvider, logger)
	collectionService := collection.NewService(collectionRepo, projectService, taskService.Repo(), eventBus, logger)
	attachmentService := attachment.NewService(attachmentRepo, taskService, minioProvider, logger)

	hub := websocket.NewHub(boardService, taskService, collectionService, eventBus, cfg.JWTSecret, logger)
	go hub.Run()

	healthHandler := health.NewHandler(&utils.HealthChecker{
		DB:    dbConn,
		Redis: redisProvider.Client,
	})
	userHandler := user.NewHandler(userService, logger)
	projectHandler := project.NewHandler(projectService)
	boardHandler := board.NewHandler(boardService)
	taskHandler := task.NewHandler(taskService)
	collectionHandler := collection.NewHandler(collectionService)
	attachmentHandler := attachment.NewHandler(attachmentService)

	r := router.NewRouter(logger, cfg.JWTSecret)

	r.RegisterHealthRoutes(healthHandler)
	r.RegisterWebSocketRoutes(hub)
	r.RegisterUserRoutes(userHandler)
	r.RegisterProjectRoutes(projectHandler)
	r.RegisterBoardRoutes(boardHandler)
	r.RegisterTaskRoutes(taskHandler)
	r.RegisterCollectionRoutes(collectionHandler)
	r.RegisterAttachmentRoutes(attachmentHandler)

	return &Application{
		Router: r,
		DB:     dbConn,
	}, nil
}
