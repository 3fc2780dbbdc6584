package dynamicpricing

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

func (h *Handler) GetConfig(c *gin.Context) {
	cfg, err := h.service.GetConfig(c.Request.Context(), c.GetUint("hotel_id"))
	if err != nil {
		response.Internal(c, err, "Failed to load dynamic pricing config")
		return
	}
	response.Success(c, http.StatusOK, cfg)
}

// UpdateConfig serves PUT /dynamic-pricing/config?normalize=true.
func (h *Handler) UpdateConfig(c *gin.Context) {
	var in Config
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	cfg, err := h.service.UpdateConfig(c.Request.Context(), c.GetUint("hotel_id"), in, c.Query("normalize") == "true")
	if err != nil {
		if response.CommonError(c, err) {
			return
		}
		response.Internal(c, err, "Failed to save dynamic pricing config")
		return
	}
	response.Success(c, http.StatusOK, cfg)
}

// OccupancyScore serves GET /occupancy-score?date.
func (h *Handler) OccupancyScore(c *gin.Context) {
	date, err := dates.Parse(c.Query("date"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date must be YYYY-MM-DD")
		return
	}

	hotelID := c.GetUint("hotel_id")
	score, err := h.service.Score(c.Request.Context(), hotelID, date)
	if err != nil {
		response.Internal(c, err, "Failed to compute occupancy score")
		return
	}
	cfg, err := h.service.GetConfig(c.Request.Context(), hotelID)
	if err != nil {
		response.Internal(c, err, "Failed to load dynamic pricing config")
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"score":                 score,
		"adjustment_percentage": NewAdjuster(cfg).Percentage(score.Value),
		"dynamic_pricing":       cfg.Enabled,
	})
}

func (h *Handler) IngestIndices(c *gin.Context) {
	var req struct {
		Indices []IndexInput `json:"indices" binding:"required,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	n, err := h.service.IngestIndices(c.Request.Context(), c.GetUint("hotel_id"), req.Indices)
	if err != nil {
		if response.CommonError(c, err) {
			return
		}
		response.Internal(c, err, "Failed to save market indices")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"stored": n})
}
