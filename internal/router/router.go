package router

import (
	"flowboard/internal/app/attachment"
	"flowboard/internal/app/board"
	"flowboard/internal/app/collection"
	"flowboard/internal/app/health"
	"flowboard/internal/app/project"
	"flowboard/internal/app/task"
	"flowboard/internal/app/user"
	"flowboard/internal/gateways/websocket"
	"flowboard/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Router struct {
	Engine    *gin.Engine
	public    *gin.RouterGroup
	protected *gin.RouterGroup
}

func NewRouter(logger *zap.Logger, jwtSecret string) *Router {
	engine := gin.New()
	engine.Use(middleware.CORSMiddleware())
	engine.Use(middleware.LoggerMiddleware(logger))
	engine.Use(gin.Recovery())

	public := engine.Group("/api")
	protected := engine.Group("/api")
	protected.Use(middleware.AuthRequired(jwtSecret))

	return &Router{
		Engine:    engine,
		public:    public,
		protected: protected,
	}
}

func (r *Router) RegisterHealthRoutes(handler health.Handler) {
	health.RegisterRoutes(r.public, handler)
}

func (r *Router) RegisterWebSocketRoutes(hub *websocket.Hub) {
	r.Engine.GET("/ws", hub.ServeWS)
}

func (r *Router) RegisterUserRoutes(handler user.Handler) {
	user.RegisterRoutes(r.public, r.protected, handler)
}

func (r *Router) RegisterProjectRoutes(handler project.Handler) {
	project.RegisterRoutes(r.protected, handler)
}

func (r *Router) RegisterBoardRoutes(handler board.Handler) {
	board.RegisterRoutes(r.protected, handler)
}

func (r *Router) RegisterTaskRoutes(handler task.Handler) {
	task.RegisterRoutes(r.protected, handler)
}

func (r *Router) RegisterCollectionRoutes(handler collection.Handler) {
	collection.RegisterRoutes(r.protected, handler)
}

func (r *Router) RegisterAttachmentRoutes(handler attachment.Handler) {
	attachment.RegisterRoutes(r.protected, handler)
}

func (r *Router) Serve(addr string) error {
	return r.Engine.Run(addr)
}
