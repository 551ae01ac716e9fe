package collection

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg gin.IRoutes, handler Handler) {
	rg.POST("/collections", handler.Create)
	rg.GET("/collections/project/:projectId", handler.ListByProject)
	rg.GET("/collections/:id", handler.Get)
	rg.GET("/collections/:id/tasks", handler.ListTasks)
	rg.PUT("/collections/:id", handler.Update)
	rg.DELETE("/collections/:id", handler.Delete)
	rg.PUT("/collections/reorder", handler.Reorder)
}
