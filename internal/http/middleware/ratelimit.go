// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements an in-memory token-bucket rate limiter with one bucket
// per caller. Authenticated callers are keyed by account, anonymous ones
// (login and registration) by client IP. The limiter is process-local and
// exists to cap model spend per account, not to authorize.
package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// KeyFunc selects the bucket for a request.
type KeyFunc func(*gin.Context) string

// KeyByAccountOrIP prefers the authenticated account and falls back to the
// client IP. Prefixes keep the two namespaces apart.
func KeyByAccountOrIP() KeyFunc {
	return func(c *gin.Context) string {
		if uid := UserID(c); uid != "" {
			return "account:" + uid
		}
		return "ip:" + c.ClientIP()
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a per-key token-bucket limiter, safe for concurrent use.
// Idle buckets are evicted opportunistically every gcEvery lookups.
type RateLimiter struct {
	rps      rate.Limit
	burst    int
	keyFn    KeyFunc
	mu       sync.Mutex
	visitors map[string]*visitor

	ttl      time.Duration
	gcEvery  uint64
	cleanupN uint64
}

// NewRateLimiter returns a limiter allowing rps tokens per second with the
// given burst (coerced to >= 1).
func NewRateLimiter(rps float64, burst int, keyFn KeyFunc) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	if keyFn == nil {
		keyFn = KeyByAccountOrIP()
	}
	return &RateLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		keyFn:    keyFn,
		visitors: make(map[string]*visitor),
		ttl:      10 * time.Minute,
		gcEvery:  5000,
	}
}

// getVisitor returns the limiter for key, creating it if absent. Eviction
// runs before the lookup so a stale bucket is dropped even when it is the
// one being fetched.
func (rl *RateLimiter) getVisitor(key string) *rate.Limiter {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.cleanupN++
	if rl.cleanupN >= rl.gcEvery {
		for k, v := range rl.visitors {
			if now.Sub(v.lastSeen) >= rl.ttl {
				delete(rl.visitors, k)
			}
		}
		rl.cleanupN = 0
	}

	if v, ok := rl.visitors[key]; ok {
		v.lastSeen = now
		return v.limiter
	}
	lim := rate.NewLimiter(rl.rps, rl.burst)
	rl.visitors[key] = &visitor{limiter: lim, lastSeen: now}
	return lim
}

// IsRateBypass reports whether IdempotencyValidator found a stored result
// for this request.
func IsRateBypass(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyRateBypass)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Handler enforces the limit. Replays skip it; rejected requests get a 429
// with Retry-After set to the whole seconds until the next token.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsRateBypass(c) {
			c.Next()
			return
		}

		lim := rl.getVisitor(rl.keyFn(c))
		now := time.Now()
		res := lim.ReserveN(now, 1)
		if res.OK() {
			delay := res.DelayFrom(now)
			if delay == 0 {
				c.Next()
				return
			}
			res.CancelAt(now)
			c.Header("Retry-After", retryAfter(delay))
		} else {
			c.Header("Retry-After", "1")
		}
		abortJSON(c, http.StatusTooManyRequests, "rate_limited", "rate limit exceeded")
	}
}

func retryAfter(d time.Duration) string {
	s := int(math.Ceil(d.Seconds()))
	if s < 1 {
		s = 1
	}
	return strconv.Itoa(s)
}
