package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/julienschmidt/httprouter"

	apierrors "snipr/internal/pkg/errors"
)

// Middleware wraps an httprouter handle.
type Middleware func(httprouter.Handle) httprouter.Handle

type RateLimiter struct {
	store  sync.Map // map[string]*bucket
	limits map[string]int
}

type bucket struct {
	tokens     int
	lastRefill time.Time
	mu         sync.Mutex
	lastAccess time.Time
}

// NewRateLimiter builds a token-bucket limiter with per-minute limits
// keyed by limit class ("shorten", "redirect").
func NewRateLimiter(limits map[string]int) *RateLimiter {
	rl := &RateLimiter{limits: limits}
	go rl.cleanupLoop()
	return rl
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		rl.store.Range(func(key, value interface{}) bool {
			b := value.(*bucket)
			b.mu.Lock()
			if now.Sub(b.lastAccess) > 10*time.Minute {
				rl.store.Delete(key)
			}
			b.mu.Unlock()
			return true
		})
	}
}

func (rl *RateLimiter) Allow(key string, limit int) bool {
	now := time.Now()

	val, _ := rl.store.LoadOrStore(key, &bucket{
		tokens:     limit,
		lastRefill: now,
		lastAccess: now,
	})

	b := val.(*bucket)
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lastAccess = now

	elapsed := now.Sub(b.lastRefill)
	refillRate := float64(limit) / 60.0
	refillTokens := int(elapsed.Seconds() * refillRate)
	if refillTokens > 0 {
		if b.tokens+refillTokens > limit {
			b.tokens = limit
		} else {
			b.tokens += refillTokens
		}
		b.lastRefill = now
	}

	if b.tokens > 0 {
		b.tokens--
		return true
	}
	return false
}

// Limit rate-limits a route class per client IP.
func (rl *RateLimiter) Limit(class string) Middleware {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			limit, ok := rl.limits[class]
			if !ok || limit <= 0 {
				limit = 100
			}

			key := clientIP(r) + ":" + class
			if !rl.Allow(key, limit) {
				w.Header().Set("Retry-After", "60")
				apierrors.WriteError(w, http.StatusTooManyRequests,
					apierrors.ErrCodeRateLimitExceeded, "Rate limit exceeded", nil)
				return
			}

			next(w, r, ps)
		}
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
