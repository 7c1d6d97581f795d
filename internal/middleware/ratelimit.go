// ===============================
// internal/middleware/ratelimit.go - Per-IP fixed window limiter
// ===============================

package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type RateLimiter struct {
	visitors map[string]*visitor
	mutex    sync.Mutex
	now      func() time.Time

	stopOnce sync.Once
	stop     chan struct{}
}

type visitor struct {
	requests    int
	windowStart time.Time
	lastSeen    time.Time
}

// NewRateLimiter starts a limiter whose idle entries are purged every
// cleanupEvery. Call Stop to release the cleanup goroutine.
func NewRateLimiter(cleanupEvery time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	go rl.cleanupRoutine(cleanupEvery)
	return rl
}

// Allow counts one request for key and reports whether it fits in limit
// per window.
func (rl *RateLimiter) Allow(key string, limit int, window time.Duration) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	v, exists := rl.visitors[key]
	if !exists || now.Sub(v.windowStart) >= window {
		rl.visitors[key] = &visitor{requests: 1, windowStart: now, lastSeen: now}
		return true
	}

	v.lastSeen = now
	if v.requests >= limit {
		return false
	}
	v.requests++
	return true
}

func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) cleanupRoutine(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup(10 * time.Minute)
		case <-rl.stop:
			return
		}
	}
}

func (rl *RateLimiter) cleanup(idle time.Duration) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	cutoff := rl.now().Add(-idle)
	for key, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, key)
		}
	}
}

// routeLimit picks the per-minute budget for a path. Import and upload
// routes hit TMDB and R2, so they get less.
func routeLimit(path string) (string, int) {
	switch {
	case strings.Contains(path, "/admin/imports"):
		return "imports", 60
	case strings.Contains(path, "/admin/upload"):
		return "upload", 20
	case strings.Contains(path, "/auth/"):
		return "auth", 30
	default:
		return "default", 200
	}
}

// RateLimit applies routeLimit per client IP. Websocket upgrades are exempt.
func RateLimit(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
			c.Next()
			return
		}

		bucket, limit := routeLimit(c.Request.URL.Path)
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))

		if !rl.Allow(c.ClientIP()+"|"+bucket, limit, time.Minute) {
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":  "Rate limit exceeded",
				"limit":  limit,
				"window": time.Minute.String(),
			})
			return
		}

		c.Next()
	}
}
