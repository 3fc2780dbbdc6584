package curve

import "github.com/gin-gonic/gin"

func RegisterPublicRoutes(r *gin.RouterGroup, handler *Handler) {
	r.GET("/seasonal-curve", handler.Get)
}

func RegisterManagerRoutes(r *gin.RouterGroup, handler *Handler) {
	r.PUT("/seasonal-curve", handler.Replace)
}
