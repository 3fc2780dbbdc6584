package tariff

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hotelpms/internal/pkg/dates"
	"hotelpms/internal/pkg/response"
)

type Handler struct {
	calculator *Calculator
}

func NewHandler(calculator *Calculator) *Handler {
	return &Handler{calculator: calculator}
}

// Rate serves GET /rate?roomType&checkIn&checkOut&servicePlan.
func (h *Handler) Rate(c *gin.Context) {
	roomType, err := strconv.ParseUint(c.Query("roomType"), 10, 64)
	if err != nil || roomType == 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "roomType is required")
		return
	}
	checkIn, err := dates.Parse(c.Query("checkIn"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "checkIn must be YYYY-MM-DD")
		return
	}
	checkOut, err := dates.Parse(c.Query("checkOut"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "checkOut must be YYYY-MM-DD")
		return
	}
	var servicePlan uint64
	if raw := c.Query("servicePlan"); raw != "" {
		if servicePlan, err = strconv.ParseUint(raw, 10, 64); err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "servicePlan must be a service type id")
			return
		}
	}

	quote, err := h.calculator.StayQuote(c.Request.Context(), c.GetUint("hotel_id"),
		uint(roomType), uint(servicePlan), checkIn, checkOut)
	if err != nil {
		WriteError(c, err, "Failed to compute rate")
		return
	}
	response.Success(c, http.StatusOK, quote)
}

// WriteError maps pricing errors to the response envelope.
func WriteError(c *gin.Context, err error, message string) {
	var closed *DateClosedError
	var noData *NoPriceDataError
	switch {
	case errors.As(err, &closed):
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "DATE_CLOSED", closed.Error(),
			gin.H{"date": dates.Format(closed.Date)})
	case errors.As(err, &noData):
		_ = c.Error(err)
		response.ErrorWithDetails(c, http.StatusServiceUnavailable, "PRICING_NOT_CONFIGURED", noData.Error(),
			gin.H{"date": dates.Format(noData.Date), "room_type_id": noData.RoomTypeID, "service_type_id": noData.ServiceTypeID})
	case errors.Is(err, ErrServiceNotOffered):
		response.Error(c, http.StatusBadRequest, "SERVICE_NOT_OFFERED", err.Error())
	default:
		if response.CommonError(c, err) {
			return
		}
		response.Internal(c, err, message)
	}
}
