package board

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg gin.IRoutes, handler Handler) {
	rg.GET("/boards", handler.ListByProject)
	rg.GET("/boards/:id", handler.GetBoard)
	rg.POST("/boards", handler.CreateBoard)
	rg.PUT("/boards/:id", handler.UpdateBoard)
	rg.PUT("/boards/:id/columns", handler.UpdateColumns)
	rg.DELETE("/boards/:id", handler.DeleteBoard)
}
