package season

import "github.com/gin-gonic/gin"

func RegisterPublicRoutes(r *gin.RouterGroup, handler *Handler) {
	blocks := r.Group("/season-blocks")
	{
		blocks.GET("", handler.List)
		blocks.GET("/overlap", handler.Overlap)
		blocks.GET("/:id", handler.Get)
	}
}

func RegisterManagerRoutes(r *gin.RouterGroup, handler *Handler) {
	blocks := r.Group("/season-blocks")
	{
		blocks.POST("", handler.Create)
		blocks.PUT("/:id", handler.Update)
		blocks.POST("/:id/confirm", handler.Confirm)
		blocks.POST("/:id/clone", handler.Clone)
		blocks.PUT("/:id/adjustments/bulk", handler.BulkEdit)
		blocks.PUT("/:id/services/:serviceId", handler.SetService)
		blocks.DELETE("/:id", handler.Delete)
	}
}
