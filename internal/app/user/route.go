package user

import "github.com/gin-gonic/gin"

func RegisterRoutes(public gin.IRoutes, protected gin.IRoutes, handler Handler) {
	public.POST("/auth/register", handler.Register)
	public.POST("/auth/login", handler.Login)
	protected.GET("/auth/me", handler.Me)
}
