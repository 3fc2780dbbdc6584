package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"hotelpms/internal/pkg/response"
)

const HotelHeader = "X-Hotel-ID"

// HotelScope sets hotel_id from the X-Hotel-ID header, falling back to defaultID.
func HotelScope(defaultID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := defaultID
		if raw := strings.TrimSpace(c.GetHeader(HotelHeader)); raw != "" {
			v, err := strconv.ParseUint(raw, 10, 64)
			if err != nil || v == 0 {
				response.Error(c, http.StatusBadRequest, "INVALID_HOTEL_ID", "X-Hotel-ID must be a positive integer")
				c.Abort()
				return
			}
			id = uint(v)
		}
		c.Set("hotel_id", id)
		c.Next()
	}
}
