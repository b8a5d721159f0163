package api

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// maxTrackedClients bounds the limiter map; past it the map starts over.
const maxTrackedClients = 10_000

type clientLimiters struct {
	mu       sync.Mutex
	rps      int
	limiters map[string]*rate.Limiter
}

func (cl *clientLimiters) get(ip string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	l, ok := cl.limiters[ip]
	if !ok {
		if len(cl.limiters) >= maxTrackedClients {
			cl.limiters = make(map[string]*rate.Limiter)
		}
		l = rate.NewLimiter(rate.Limit(cl.rps), cl.rps)
		cl.limiters[ip] = l
	}
	return l
}

// RateLimitMiddleware gives every client IP its own token bucket of rps
// requests per second.
func RateLimitMiddleware(rps int) gin.HandlerFunc {
	cl := &clientLimiters{
		rps:      rps,
		limiters: make(map[string]*rate.Limiter),
	}

	return func(c *gin.Context) {
		if !cl.get(c.ClientIP()).Allow() {
			c.Header("Retry-After", strconv.Itoa(1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
