package availability

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	r.GET("/availability", handler.Find)
}
