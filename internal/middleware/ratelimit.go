package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/hirelink/backend/internal/cache"
)

// RateLimiter keeps a token-bucket limiter per caller for message sends.
type RateLimiter struct {
	limiters map[uuid.UUID]*limiterEntry
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(rps int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[uuid.UUID]*limiterEntry),
		rate:     rate.Limit(rps),
		burst:    rps * 2,
	}
}

func (rl *RateLimiter) getLimiter(userID uuid.UUID) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	e, exists := rl.limiters[userID]
	if !exists {
		e = &limiterEntry{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[userID] = e
	}
	e.lastSeen = time.Now()

	return e.limiter
}

// Cleanup periodically drops limiters not seen for ten minutes.
func (rl *RateLimiter) Cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	go func() {
		for range ticker.C {
			rl.mu.Lock()
			cutoff := time.Now().Add(-10 * time.Minute)
			for uid, e := range rl.limiters {
				if e.lastSeen.Before(cutoff) {
					delete(rl.limiters, uid)
				}
			}
			rl.mu.Unlock()
		}
	}()
}

// RateLimitMiddleware limits requests per user
func RateLimitMiddleware(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			c.Next()
			return
		}

		uid, ok := userID.(uuid.UUID)
		if !ok {
			c.Next()
			return
		}

		limiter := rl.getLimiter(uid)
		if !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// SendRateLimitMiddleware limits message sends per user. When Redis is up it
// enforces the limit with a shared token bucket so every instance sees the
// same budget; otherwise it falls back to the in-process limiter.
func SendRateLimitMiddleware(redis *cache.RedisClient, fallback *RateLimiter, rps int) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			c.Next()
			return
		}

		uid, ok := userID.(uuid.UUID)
		if !ok {
			c.Next()
			return
		}

		allowed := true
		if redis != nil {
			got, err := redis.AllowAction(uid, "send", rps, rps*2)
			if err == nil {
				allowed = got
			} else {
				allowed = fallback.getLimiter(uid).Allow()
			}
		} else {
			allowed = fallback.getLimiter(uid).Allow()
		}

		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			c.Abort()
			return
		}

		c.Next()
	}
}
