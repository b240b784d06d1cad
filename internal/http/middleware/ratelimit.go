// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements the per-caller token-bucket rate limiter. Each caller
// has two buckets: reads (GET/HEAD/OPTIONS) and writes (compose, relation
// toggles, registration). Callers are keyed by user id as resolved by
// Identity, or by client IP when anonymous. Buckets live in process memory
// and are evicted after ten idle minutes. Idempotent replays of POST /recipes
// skip the limiter.
//
// The buckets are the only cross-request in-process state of the service;
// several replicas each enforce their own budget.
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

const (
	visitorTTL    = 10 * time.Minute
	cleanupEvery  = 5000
	exhaustedWait = time.Minute // Retry-After when a bucket never refills
)

// Budget is a token bucket: RPS tokens per second, at most Burst at once.
type Budget struct {
	RPS   float64
	Burst int
}

// keyFunc selects the caller identity of a request ("user:<id>", "ip:<addr>").
type keyFunc func(*gin.Context) string

// KeyByUserOrIP keys buckets by the resolved user id and falls back to the
// client IP for anonymous callers.
func KeyByUserOrIP() keyFunc {
	return func(c *gin.Context) string {
		if uid := UserID(c); uid != "" {
			return "user:" + uid
		}
		return "ip:" + c.ClientIP()
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter enforces per-caller read and write budgets. It is safe for
// concurrent use.
type RateLimiter struct {
	read, write Budget
	keyFn       keyFunc

	mu       sync.Mutex
	visitors map[string]*visitor
	ttl      time.Duration
	cleanupN uint64
}

// NewRateLimiter returns a limiter with separate read and write budgets.
// Bursts <= 0 are coerced to 1.
func NewRateLimiter(read, write Budget, keyFn keyFunc) *RateLimiter {
	return &RateLimiter{
		read:     normBudget(read),
		write:    normBudget(write),
		keyFn:    keyFn,
		visitors: make(map[string]*visitor),
		ttl:      visitorTTL,
	}
}

func normBudget(b Budget) Budget {
	if b.Burst <= 0 {
		b.Burst = 1
	}
	if b.RPS < 0 {
		b.RPS = 0
	}
	return b
}

// isWrite reports whether method changes state and draws on the write budget.
func isWrite(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return true
}

// getVisitor returns the limiter for key, creating it with b if absent. Every
// cleanupEvery lookups it first evicts buckets idle for at least ttl.
func (rl *RateLimiter) getVisitor(key string, b Budget) *rate.Limiter {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.cleanupN++
	if rl.cleanupN >= cleanupEvery {
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
	lim := rate.NewLimiter(rate.Limit(b.RPS), b.Burst)
	rl.visitors[key] = &visitor{limiter: lim, lastSeen: now}
	return lim
}

// take consumes a token for the request, or reports how long the caller
// should wait before retrying.
func (rl *RateLimiter) take(c *gin.Context) (time.Duration, bool) {
	b, class := rl.read, "r|"
	if isWrite(c.Request.Method) {
		b, class = rl.write, "w|"
	}
	lim := rl.getVisitor(class+rl.keyFn(c), b)

	res := lim.Reserve()
	if !res.OK() {
		return exhaustedWait, false
	}
	if d := res.Delay(); d > 0 {
		res.Cancel()
		return d, false
	}
	return 0, true
}

// IsRateBypass reports whether IdempotencyValidator found a replay for this
// request, in which case no token is consumed.
func IsRateBypass(c *gin.Context) bool { return c.GetBool(ctxKeyRateBypass) }

// Handler returns the Gin middleware. A denied request gets 429 with
// code "rate_limited" and a Retry-After (whole seconds, at least 1) telling
// when the next token becomes available.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsRateBypass(c) {
			c.Next()
			return
		}
		wait, ok := rl.take(c)
		if ok {
			c.Next()
			return
		}
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds(wait)))
		abortJSON(c, http.StatusTooManyRequests, "rate_limited", "rate limit exceeded")
	}
}

func retryAfterSeconds(d time.Duration) int {
	s := int(math.Ceil(d.Seconds()))
	if s < 1 {
		return 1
	}
	return s
}
