package season

import (
	"errors"
	"net/http"
	"strconv"

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
	blocks, err := h.service.List(c.Request.Context(), c.GetUint("hotel_id"))
	if err != nil {
		response.Internal(c, err, "Failed to list season blocks")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"blocks": blocks})
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	b, err := h.service.Get(c.Request.Context(), c.GetUint("hotel_id"), id)
	if err != nil {
		h.fail(c, err, "Failed to load season block")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"block": b})
}

// Overlap serves GET /season-blocks/overlap?start&end&exclude.
func (h *Handler) Overlap(c *gin.Context) {
	start, err := dates.Parse(c.Query("start"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "start must be YYYY-MM-DD")
		return
	}
	end, err := dates.Parse(c.Query("end"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "end must be YYYY-MM-DD")
		return
	}
	var exclude uint64
	if raw := c.Query("exclude"); raw != "" {
		if exclude, err = strconv.ParseUint(raw, 10, 64); err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "exclude must be a block id")
			return
		}
	}

	res, err := h.service.CheckOverlap(c.Request.Context(), c.GetUint("hotel_id"), start, end, uint(exclude))
	if err != nil {
		h.fail(c, err, "Failed to check overlap")
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) Create(c *gin.Context) {
	h.save(c, 0, http.StatusCreated)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	h.save(c, id, http.StatusOK)
}

func (h *Handler) save(c *gin.Context, id uint, status int) {
	var in BlockInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.Save(c.Request.Context(), c.GetUint("hotel_id"), id, in, c.Query("force") == "true")
	if err != nil {
		h.fail(c, err, "Failed to save season block")
		return
	}
	response.Success(c, status, gin.H{"block": b})
}

func (h *Handler) Confirm(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	b, err := h.service.Confirm(c.Request.Context(), c.GetUint("hotel_id"), id, c.Query("force") == "true")
	if err != nil {
		h.fail(c, err, "Failed to confirm season block")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"block": b})
}

func (h *Handler) Clone(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	b, err := h.service.Clone(c.Request.Context(), c.GetUint("hotel_id"), id)
	if err != nil {
		h.fail(c, err, "Failed to clone season block")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"block": b})
}

func (h *Handler) BulkEdit(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var edit BulkEdit
	if err := c.ShouldBindJSON(&edit); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	b, err := h.service.BulkEditAdjustments(c.Request.Context(), c.GetUint("hotel_id"), id, edit)
	if err != nil {
		h.fail(c, err, "Failed to update adjustments")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"block": b})
}

func (h *Handler) SetService(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	serviceID, ok := parseID(c, "serviceId")
	if !ok {
		return
	}
	var req struct {
		IsEnabled *bool `json:"is_enabled" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "is_enabled is required")
		return
	}
	b, err := h.service.SetServiceSelection(c.Request.Context(), c.GetUint("hotel_id"), id, serviceID, *req.IsEnabled)
	if err != nil {
		h.fail(c, err, "Failed to update service selection")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"block": b})
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), c.GetUint("hotel_id"), id); err != nil {
		h.fail(c, err, "Failed to delete season block")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) fail(c *gin.Context, err error, message string) {
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		response.ErrorWithDetails(c, http.StatusConflict, "SEASON_OVERLAP", conflict.Error(),
			gin.H{"conflicting_blocks": conflict.Conflicts})
		return
	}
	if response.CommonError(c, err) {
		return
	}
	response.Internal(c, err, message)
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid "+param)
		return 0, false
	}
	return uint(id), true
}
