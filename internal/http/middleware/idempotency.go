// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements Idempotency-Key support for resource-creating requests
// (POST /recipes). A key is scoped to (user, route, key): when the same user
// retries the same route with the same key, the lookup returns the id of the
// resource the first request created, and the handler answers with that
// resource instead of creating a second one.
//
// The middleware only validates the header and performs the lookup; handlers
// read the outcome through GetIdempotencyKey, IdempotencyScope and
// ReplayResourceID, and persist new records after a successful create.
// Replays also bypass the rate limiter.
package middleware

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey is the request header carrying the idempotency key.
const HeaderIdempotencyKey = "Idempotency-Key"

// Context keys used internally to stash idempotency state.
const (
	ctxKeyIdemKey      = "idem.key"
	ctxKeyIdemResource = "idem.resource" // string: id of the resource to replay
	ctxKeyRateBypass   = "rate.bypass"   // bool: true to skip rate limiting
)

var defaultKeyPattern = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)

// GetIdempotencyKey returns the validated key stored by IdempotencyValidator.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	s := c.GetString(ctxKeyIdemKey)
	return s, s != ""
}

// IdempotencyScope identifies the operation a key belongs to, e.g.
// "POST /api/recipes". Keys are unique per (user, scope).
func IdempotencyScope(c *gin.Context) string {
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	return c.Request.Method + " " + path
}

// ReplayResourceID returns the id of the resource created by an earlier
// request with the same key, if any.
func ReplayResourceID(c *gin.Context) (string, bool) {
	s := c.GetString(ctxKeyIdemResource)
	return s, s != ""
}

// IsReplay reports whether this request repeats a completed one.
func IsReplay(c *gin.Context) bool {
	_, ok := ReplayResourceID(c)
	return ok
}

// IdempotencyOptions configures header validation.
type IdempotencyOptions struct {
	// MaxLen caps the accepted key length. Values <= 0 default to 200.
	MaxLen int
	// Pattern restricts allowed characters; ^[A-Za-z0-9._~\-:]+$ when nil.
	Pattern *regexp.Regexp
}

// IdempotencyLookup returns the resource id stored for (userID, scope, key)
// if the record exists and has not expired at now. Lookup failures are
// treated as "no record" so they never block the request.
type IdempotencyLookup func(ctx context.Context, userID, scope, key string, now time.Time) (resourceID string, found bool, err error)

// IdempotencyValidator validates the Idempotency-Key header and, for
// identified callers, checks for a prior completed request.
//
//   - no header: no-op
//   - malformed header: 400 bad_idempotency_key
//   - replay found: the resource id is stashed and rate limiting is skipped
func IdempotencyValidator(opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 200
	}
	pat := opts.Pattern
	if pat == nil {
		pat = defaultKeyPattern
	}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxLen || !pat.MatchString(key) {
			abortJSON(c, http.StatusBadRequest, "bad_idempotency_key", "invalid Idempotency-Key")
			return
		}
		c.Set(ctxKeyIdemKey, key)

		if uid := UserID(c); lookup != nil && uid != "" {
			id, found, err := lookup(c.Request.Context(), uid, IdempotencyScope(c), key, time.Now().UTC())
			if err != nil {
				LoggerFrom(c).Warn().Err(err).Msg("idempotency lookup failed")
			} else if found && id != "" {
				c.Set(ctxKeyIdemResource, id)
				c.Set(ctxKeyRateBypass, true)
			}
		}

		c.Next()
	}
}
