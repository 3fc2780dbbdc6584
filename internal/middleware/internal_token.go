package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hotelpms/internal/pkg/logger"
	"hotelpms/internal/pkg/response"
)

// IngestToken protects the market index feed with a static bearer token.
func IngestToken(expected string, log *zap.Logger) gin.HandlerFunc {
	log = logger.OrNop(log)
	return func(c *gin.Context) {
		if expected == "" {
			logAuthFailure(log, c, http.StatusInternalServerError, "token_not_configured")
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Ingest token is not configured")
			c.Abort()
			return
		}

		token, ok := bearerToken(c)
		if !ok {
			logAuthFailure(log, c, http.StatusUnauthorized, "missing_or_malformed")
			return
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
			logAuthFailure(log, c, http.StatusForbidden, "invalid_token")
			response.Error(c, http.StatusForbidden, "AUTH_INVALID", "Invalid ingest token")
			c.Abort()
			return
		}

		c.Next()
	}
}

func logAuthFailure(log *zap.Logger, c *gin.Context, status int, reason string) {
	log.Warn("ingest auth failed",
		zap.Int("status", status),
		zap.String("request_id", requestID(c)),
		zap.String("client_ip", c.ClientIP()),
		zap.String("reason", reason))
}
