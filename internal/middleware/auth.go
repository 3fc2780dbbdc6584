package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hotelpms/internal/pkg/jwt"
	"hotelpms/internal/pkg/response"
)

// JWTAuth validates the bearer token and puts user_id, role and hotel_id on the context.
// A hotel id in the token replaces whatever HotelScope resolved.
func JWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		if claims.HotelID > 0 {
			c.Set("hotel_id", claims.HotelID)
		}
		c.Next()
	}
}

// AccessTokenParam carries the token on websocket upgrades, where browsers
// cannot set an Authorization header.
const AccessTokenParam = "access_token"

// bearerToken writes the 401 itself when the header is missing or malformed.
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" && c.IsWebsocket() {
		if token := strings.TrimSpace(c.Query(AccessTokenParam)); token != "" {
			return token, true
		}
	}
	if authHeader == "" {
		response.Error(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
		c.Abort()
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || strings.TrimSpace(parts[1]) == "" {
		response.Error(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
		c.Abort()
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}
