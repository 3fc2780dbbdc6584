package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"hotelpms/internal/pkg/response"
)

const (
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

// RequireRole lets the request through when the authenticated role is one of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			c.Abort()
			return
		}

		if !slices.Contains(roles, role) {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

// ManagerOnly guards tariff configuration writes.
func ManagerOnly() gin.HandlerFunc {
	return RequireRole(RoleManager, RoleAdmin)
}
