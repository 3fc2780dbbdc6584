package inventory

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	r.GET("/rooms", handler.ListRooms)
	r.GET("/room-types", handler.ListRoomTypes)
	r.GET("/service-types", handler.ListServiceTypes)
}
