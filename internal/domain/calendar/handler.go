package calendar

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotelpms/internal/pkg/dates"
	"hotelpms/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	from, err := dates.Parse(c.Query("from"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "from must be YYYY-MM-DD")
		return
	}
	to, err := dates.Parse(c.Query("to"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "to must be YYYY-MM-DD")
		return
	}

	overrides, err := h.service.List(c.Request.Context(), c.GetUint("hotel_id"), from, to)
	if err != nil {
		if response.CommonError(c, err) {
			return
		}
		response.Internal(c, err, "Failed to list calendar")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"overrides": overrides})
}

func (h *Handler) Set(c *gin.Context) {
	date, err := dates.Parse(c.Param("date"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date must be YYYY-MM-DD")
		return
	}

	var req SetOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	o, err := h.service.Set(c.Request.Context(), c.GetUint("hotel_id"), date, req)
	if err != nil {
		if response.CommonError(c, err) {
			return
		}
		response.Internal(c, err, "Failed to save calendar override")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"override": o})
}

func (h *Handler) Remove(c *gin.Context) {
	date, err := dates.Parse(c.Param("date"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date must be YYYY-MM-DD")
		return
	}

	if err := h.service.Remove(c.Request.Context(), c.GetUint("hotel_id"), date); err != nil {
		if response.CommonError(c, err) {
			return
		}
		response.Internal(c, err, "Failed to delete calendar override")
		return
	}
	c.Status(http.StatusNoContent)
}
