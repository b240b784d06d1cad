// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file resolves the caller's identity. Authentication protocols live in
// front of this service; by the time a request arrives, the caller is named by
// the X-User-ID header. Identity() checks that the named user exists and
// stores the id under the "userID" context key, which the logger, the rate
// limiter, idempotency and the handlers all read. Requests without the header
// stay anonymous; RequireUser() rejects them on routes that write, and
// RequireAdmin() limits catalog writes to a configured set of ids.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// HeaderUserID names the caller.
const HeaderUserID = "X-User-ID"

// ctxKeyUserID is the Gin context key holding the resolved user id.
const ctxKeyUserID = "userID"

// UserResolver reports whether a user with the given id exists.
type UserResolver func(ctx context.Context, id string) (bool, error)

// Identity validates X-User-ID against resolve and stashes the id in the
// context. An unknown id is answered with 401; a resolver failure with 500.
func Identity(resolve UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderUserID))
		if id == "" {
			c.Next()
			return
		}
		exists, err := resolve(c.Request.Context(), id)
		if err != nil {
			LoggerFrom(c).Error().Err(err).Str("user_id", id).Msg("identity lookup failed")
			abortJSON(c, http.StatusInternalServerError, "internal_error", "internal server error")
			return
		}
		if !exists {
			abortJSON(c, http.StatusUnauthorized, "unauthorized", "unknown user")
			return
		}
		c.Set(ctxKeyUserID, id)
		c.Next()
	}
}

// RequireUser rejects anonymous requests with 401.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserID(c) == "" {
			abortJSON(c, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects anonymous callers with 401 and callers outside ids
// with 403. An empty ids closes the route to everyone.
func RequireAdmin(ids []string) gin.HandlerFunc {
	admins := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			admins[id] = struct{}{}
		}
	}
	return func(c *gin.Context) {
		uid := UserID(c)
		if uid == "" {
			abortJSON(c, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}
		if _, ok := admins[uid]; !ok {
			abortJSON(c, http.StatusForbidden, "forbidden", "administrator access required")
			return
		}
		c.Next()
	}
}

// UserID returns the id resolved by Identity, or "" for anonymous callers.
func UserID(c *gin.Context) string {
	if v, ok := c.Get(ctxKeyUserID); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// abortJSON writes the standard error envelope and stops the chain.
func abortJSON(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"request_id": c.Writer.Header().Get(requestIDHeader),
		"code":       code,
		"message":    msg,
	})
}
