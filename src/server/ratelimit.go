package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------
// Per-IP Rate Limiting
// -----------------------------------------------------------------------------

// rateLimiter is a token bucket per remote address. A zero requests-per-
// minute configuration disables it.
type rateLimiter struct {
	ratePerSec float64
	burst      float64

	mu      sync.Mutex
	buckets map[string]*tokenBucket
}

type tokenBucket struct {
	tokens float64
	last   time.Time
}

// -----------------------------------------------------------------------------

func newRateLimiter(requestsPerMinute, burst int) *rateLimiter {
	if burst <= 0 {
		burst = requestsPerMinute
	}
	return &rateLimiter{
		ratePerSec: float64(requestsPerMinute) / 60.0,
		burst:      float64(burst),
		buckets:    make(map[string]*tokenBucket),
	}
}

// -----------------------------------------------------------------------------

func (rl *rateLimiter) allow(key string, now time.Time) bool {
	if rl.ratePerSec <= 0 {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[key]
	if !ok {
		rl.buckets[key] = &tokenBucket{tokens: rl.burst - 1, last: now}
		return true
	}

	b.tokens += now.Sub(b.last).Seconds() * rl.ratePerSec
	if b.tokens > rl.burst {
		b.tokens = rl.burst
	}
	b.last = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// -----------------------------------------------------------------------------

func (rl *rateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP(), time.Now()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"detail": "Rate limit exceeded"})
			return
		}
		c.Next()
	}
}
