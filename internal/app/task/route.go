package task

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg gin.IRoutes, handler Handler) {
	rg.GET("/tasks", handler.ListBoardTasks)
	rg.GET("/tasks/:id", handler.GetTask)
	rg.POST("/tasks", handler.CreateTask)
	rg.PUT("/tasks/:id", handler.UpdateTask)
	rg.DELETE("/tasks/:id", handler.DeleteTask)
	rg.PUT("/tasks/:id/move", handler.MoveTask)
	rg.GET("/tasks/:id/subtasks", handler.ListSubtasks)
	rg.POST("/tasks/:id/subtasks", handler.CreateSubtask)
}
