package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"hotelpms/internal/pkg/logger"
	"hotelpms/internal/pkg/response"
)

const RequestIDHeader = "X-Request-ID"

// RequestID keeps an incoming X-Request-ID or assigns a fresh one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// ErrorLogger logs failed requests and recovers from panics.
func ErrorLogger(log *zap.Logger) gin.HandlerFunc {
	log = logger.OrNop(log)
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				err := fmt.Errorf("%v", recovered)
				logRequestError(log, c, start, "panic", err,
					zap.ByteString("stack", debug.Stack()))

				response.Error(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal Server Error")
				c.Abort()
				return
			}

			if len(c.Errors) == 0 {
				if c.Writer.Status() >= http.StatusInternalServerError {
					logRequestError(log, c, start, "http_error", fmt.Errorf("status=%d", c.Writer.Status()))
				}
				return
			}

			for _, err := range c.Errors {
				fields := []zap.Field{}
				if err.Meta != nil {
					fields = append(fields, zap.Any("meta", err.Meta))
				}
				logRequestError(log, c, start, fmt.Sprintf("%v", err.Type), err.Err, fields...)
			}
		}()

		c.Next()
	}
}

func logRequestError(log *zap.Logger, c *gin.Context, start time.Time, errType string, err error, extra ...zap.Field) {
	fields := append([]zap.Field{
		zap.String("type", errType),
		zap.Int("status", c.Writer.Status()),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("query", c.Request.URL.RawQuery),
		zap.String("client_ip", c.ClientIP()),
		zap.Uint("user_id", c.GetUint("user_id")),
		zap.Uint("hotel_id", c.GetUint("hotel_id")),
		zap.String("role", c.GetString("role")),
		zap.String("request_id", requestID(c)),
		zap.Duration("latency", time.Since(start)),
		zap.Error(err),
	}, extra...)
	log.Error("request_error", fields...)
}

func requestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return c.GetHeader(RequestIDHeader)
}
