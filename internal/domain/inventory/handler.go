package inventory

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotelpms/internal/pkg/response"
)

// Handler exposes read-only listings used by the configuration screens.
type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := h.repo.ListRooms(c.Request.Context(), c.GetUint("hotel_id"), RoomStatus(c.Query("status")))
	if err != nil {
		response.Internal(c, err, "Failed to list rooms")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"rooms": rooms})
}

func (h *Handler) ListRoomTypes(c *gin.Context) {
	types, err := h.repo.ListRoomTypes(c.Request.Context(), c.GetUint("hotel_id"))
	if err != nil {
		response.Internal(c, err, "Failed to list room types")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"room_types": types})
}

func (h *Handler) ListServiceTypes(c *gin.Context) {
	types, err := h.repo.ListServiceTypes(c.Request.Context(), c.GetUint("hotel_id"))
	if err != nil {
		response.Internal(c, err, "Failed to list service types")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"service_types": types})
}
