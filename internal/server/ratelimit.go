package server

import (
	"net/http"
	"sync"
	"time"

	"fightclub/internal/api"
	"fightclub/internal/apperr"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// KindRateLimited is the error code of a throttled request.
const KindRateLimited apperr.Kind = "RATE_LIMITED"

// clientLimiter keeps one token bucket per client IP. Buckets idle for
// longer than idleTTL are dropped during the next sweep.
type clientLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newClientLimiter(rps float64, burst int, idleTTL time.Duration) *clientLimiter {
	return &clientLimiter{
		buckets:   make(map[string]*bucket),
		limit:     rate.Limit(rps),
		burst:     burst,
		idleTTL:   idleTTL,
		lastSweep: time.Now(),
	}
}

func (l *clientLimiter) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > l.idleTTL {
		for key, b := range l.buckets {
			if now.Sub(b.lastSeen) > l.idleTTL {
				delete(l.buckets, key)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.buckets[ip]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[ip] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

// RateLimitMiddleware throttles each client IP to rps requests per second
// with the given burst. Throttled requests get 429 in the API envelope.
func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	limiter := newClientLimiter(rps, burst, 3*time.Minute)

	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP(), time.Now()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, api.Response{
				Error: &api.ErrorBody{Code: KindRateLimited, Message: "rate limit exceeded"},
			})
			return
		}
		c.Next()
	}
}
