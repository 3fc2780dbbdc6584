package curve

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotelpms/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Get(c *gin.Context) {
	curve, err := h.service.Load(c.Request.Context(), c.GetUint("hotel_id"))
	if err != nil {
		response.Internal(c, err, "Failed to load seasonal curve")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"keyframes": curve.Keyframes()})
}

func (h *Handler) Replace(c *gin.Context) {
	var req ReplaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	curve, err := h.service.Replace(c.Request.Context(), c.GetUint("hotel_id"), req)
	if err != nil {
		if response.CommonError(c, err) {
			return
		}
		response.Internal(c, err, "Failed to save seasonal curve")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"keyframes": curve.Keyframes()})
}
