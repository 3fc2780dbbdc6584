package calendar

import "github.com/gin-gonic/gin"

func RegisterPublicRoutes(r *gin.RouterGroup, handler *Handler) {
	r.GET("/calendar", handler.List)
}

func RegisterManagerRoutes(r *gin.RouterGroup, handler *Handler) {
	r.PUT("/calendar/:date", handler.Set)
	r.DELETE("/calendar/:date", handler.Remove)
}
