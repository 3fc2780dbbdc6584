package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"hotelpms/internal/pkg/logger"
	"hotelpms/internal/pkg/response"
)

type limiterStore struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	every    rate.Limit
	burst    int
}

func (s *limiterStore) get(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.limiters[ip]
	if !ok {
		l = rate.NewLimiter(s.every, s.burst)
		s.limiters[ip] = l
	}
	return l
}

// RateLimit allows perMinute requests per client IP, with the same burst.
func RateLimit(perMinute int, log *zap.Logger) gin.HandlerFunc {
	log = logger.OrNop(log)
	store := &limiterStore{
		limiters: map[string]*rate.Limiter{},
		every:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
	}
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !store.get(ip).Allow() {
			log.Warn("rate limit exceeded", zap.String("ip", ip), zap.String("path", c.Request.URL.Path))
			response.Error(c, http.StatusTooManyRequests, "RATE_LIMITED", "Rate limit exceeded. Try again later.")
			c.Abort()
			return
		}
		c.Next()
	}
}
