package dynamicpricing

import "github.com/gin-gonic/gin"

func RegisterPublicRoutes(r *gin.RouterGroup, handler *Handler) {
	r.GET("/dynamic-pricing/config", handler.GetConfig)
	r.GET("/occupancy-score", handler.OccupancyScore)
}

func RegisterManagerRoutes(r *gin.RouterGroup, handler *Handler) {
	r.PUT("/dynamic-pricing/config", handler.UpdateConfig)
}

// RegisterIngestRoutes is mounted behind the internal token middleware.
func RegisterIngestRoutes(r *gin.RouterGroup, handler *Handler) {
	r.PUT("/external-indices", handler.IngestIndices)
}
