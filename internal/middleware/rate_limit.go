package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"clinic-server/internal/utils"
)

// clientLimiters hands out one token bucket per client IP.
type clientLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newClientLimiters(perMinute int) *clientLimiters {
	return &clientLimiters{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    perMinute,
	}
}

func (cl *clientLimiters) get(ip string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	l, ok := cl.limiters[ip]
	if !ok {
		l = rate.NewLimiter(cl.limit, cl.burst)
		cl.limiters[ip] = l
	}
	return l
}

// RateLimit throttles every request through a per-IP token bucket allowing
// perMinute requests. Used as the strict tier on auth endpoints.
func RateLimit(perMinute int) gin.HandlerFunc {
	cl := newClientLimiters(perMinute)
	return func(c *gin.Context) {
		if !cl.get(c.ClientIP()).Allow() {
			utils.Error(c, http.StatusTooManyRequests, "Too many requests. Please try again later.")
			c.Abort()
			return
		}
		c.Next()
	}
}

// WriteRateLimit throttles only mutating methods, leaving reads unmetered.
func WriteRateLimit(perMinute int) gin.HandlerFunc {
	cl := newClientLimiters(perMinute)
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			if !cl.get(c.ClientIP()).Allow() {
				utils.Error(c, http.StatusTooManyRequests, "Too many write requests. Please slow down.")
				c.Abort()
				return
			}
		}
		c.Next()
	}
}
