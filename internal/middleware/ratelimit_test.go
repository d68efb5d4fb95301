package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func newLimitedRouter(rl *RateLimiter, uid uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", uid)
		c.Next()
	})
	router.Use(RateLimitMiddleware(rl))
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func get(router *gin.Engine) int {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	return w.Code
}

func TestRateLimitMiddleware_ExhaustsBurst(t *testing.T) {
	// rps 1 gives a burst of 2; the third immediate request must be rejected.
	router := newLimitedRouter(NewRateLimiter(1), uuid.New())

	if code := get(router); code != http.StatusOK {
		t.Fatalf("first request = %d, want 200", code)
	}
	if code := get(router); code != http.StatusOK {
		t.Fatalf("second request = %d, want 200", code)
	}
	if code := get(router); code != http.StatusTooManyRequests {
		t.Fatalf("third request = %d, want 429", code)
	}
}

func TestRateLimitMiddleware_PerUserBudgets(t *testing.T) {
	rl := NewRateLimiter(1)
	first := newLimitedRouter(rl, uuid.New())
	second := newLimitedRouter(rl, uuid.New())

	for i := 0; i < 2; i++ {
		if code := get(first); code != http.StatusOK {
			t.Fatalf("first user request %d = %d, want 200", i+1, code)
		}
	}
	if code := get(first); code != http.StatusTooManyRequests {
		t.Fatalf("first user over budget = %d, want 429", code)
	}

	// A different user has an untouched bucket.
	if code := get(second); code != http.StatusOK {
		t.Fatalf("second user request = %d, want 200", code)
	}
}

func TestRateLimitMiddleware_SkipsAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimitMiddleware(NewRateLimiter(1)))
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// No user identity on the context: the limiter does not apply.
	for i := 0; i < 5; i++ {
		if code := get(router); code != http.StatusOK {
			t.Fatalf("request %d = %d, want 200", i+1, code)
		}
	}
}

func TestSendRateLimitMiddleware_LocalFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	uid := uuid.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", uid)
		c.Next()
	})
	// No Redis: the in-process limiter carries the budget.
	router.Use(SendRateLimitMiddleware(nil, NewRateLimiter(1), 1))
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if code := get(router); code != http.StatusOK {
		t.Fatalf("first request = %d, want 200", code)
	}
	if code := get(router); code != http.StatusOK {
		t.Fatalf("second request = %d, want 200", code)
	}
	if code := get(router); code != http.StatusTooManyRequests {
		t.Fatalf("third request = %d, want 429", code)
	}
}
