package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	limiterIdleTimeout   = 3 * time.Minute
	limiterSweepInterval = time.Minute
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiters hands out one token bucket per client key and evicts
// buckets that have gone idle, so the map stays bounded by the set of
// recently active clients.
type clientLimiters struct {
	mu      sync.Mutex
	perSec  rate.Limit
	burst   int
	entries map[string]*limiterEntry
	now     func() time.Time
}

func newClientLimiters(perSecond float64, burst int) *clientLimiters {
	return &clientLimiters{
		perSec:  rate.Limit(perSecond),
		burst:   burst,
		entries: make(map[string]*limiterEntry),
		now:     time.Now,
	}
}

func (c *clientLimiters) get(key string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(c.perSec, c.burst)}
		c.entries[key] = entry
	}
	entry.lastSeen = c.now()
	return entry.limiter
}

// sweep drops buckets not seen within idleFor.
func (c *clientLimiters) sweep(idleFor time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cutoff := c.now().Add(-idleFor)
	for key, entry := range c.entries {
		if entry.lastSeen.Before(cutoff) {
			delete(c.entries, key)
		}
	}
}

// RateLimit applies a per-client token bucket keyed on the client IP.
// Exhausting the bucket yields 429 without touching the handlers.
func RateLimit(perSecond float64, burst int) gin.HandlerFunc {
	limiters := newClientLimiters(perSecond, burst)

	go func() {
		for range time.Tick(limiterSweepInterval) {
			limiters.sweep(limiterIdleTimeout)
		}
	}()

	return func(c *gin.Context) {
		if !limiters.get(c.ClientIP()).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}
