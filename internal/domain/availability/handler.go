package availability

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"hotelpms/internal/domain/tariff"
	"hotelpms/internal/pkg/dates"
	"hotelpms/internal/pkg/response"
)

type Handler struct {
	resolver *Resolver
}

func NewHandler(resolver *Resolver) *Handler {
	return &Handler{resolver: resolver}
}

// Find serves GET /availability?checkIn&checkOut&guests&tags&roomId&alternatives&servicePlan.
func (h *Handler) Find(c *gin.Context) {
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
	guests, err := strconv.Atoi(c.DefaultQuery("guests", "1"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "guests must be a number")
		return
	}

	req := StayRequest{
		CheckIn:             checkIn,
		CheckOut:            checkOut,
		RequiredGuests:      guests,
		IncludeAlternatives: c.Query("alternatives") == "true",
	}
	if raw := c.Query("tags"); raw != "" {
		req.RequiredTags = strings.Split(raw, ",")
	}
	if raw := c.Query("roomId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "roomId must be a room id")
			return
		}
		roomID := uint(id)
		req.RequiredRoomID = &roomID
	}
	if raw := c.Query("servicePlan"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "servicePlan must be a service type id")
			return
		}
		serviceID := uint(id)
		req.ServiceTypeID = &serviceID
	}

	res, err := h.resolver.FindAvailableRooms(c.Request.Context(), c.GetUint("hotel_id"), req)
	if err != nil {
		tariff.WriteError(c, err, "Failed to resolve availability")
		return
	}
	response.Success(c, http.StatusOK, res)
}
