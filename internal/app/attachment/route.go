package attachment

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg gin.IRoutes, handler Handler) {
	rg.POST("/tasks/:id/attachments", handler.Upload)
	rg.GET("/tasks/:id/attachments", handler.ListByTask)
	rg.GET("/attachments/:id/download", handler.Download)
	rg.DELETE("/attachments/:id", handler.Delete)
}
