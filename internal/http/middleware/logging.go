// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides the correlation id, the development access log and the
// panic recovery handler:
//
//   - RequestID() reuses or mints X-Request-ID and stores it in the context.
//   - Logger() is the unredacted access log mounted in debug mode. It stores
//     a request-scoped zerolog.Logger (read back with LoggerFrom) and writes
//     one line per request with the viewer, the :id target of the route and
//     whether the request was an idempotent replay. Release builds mount
//     RedactingLogger instead.
//   - Recovery() turns panics into the JSON 500 envelope.
//
// Recommended order: RequestID, Logger (or RedactingLogger), Recovery, then
// Identity, so every log line and error body carries the request id.
package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	requestIDKey      = "requestID"
	requestIDHeader   = "X-Request-ID"
	loggerKey         = "logger"
	maxQueryLogLength = 2048
	maxPathLogLength  = 256
)

// RequestID propagates the caller's X-Request-ID or generates a UUIDv4.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(requestIDHeader, rid)
		c.Next()
	}
}

// GetRequestID returns the correlation id stored by RequestID.
func GetRequestID(c *gin.Context) string { return c.GetString(requestIDKey) }

// Logger writes one structured access line per request.
//
// Viewer and replay state are read after the chain ran, so they are present
// even though Identity and IdempotencyValidator are mounted after Logger.
// Requests with gin errors attached log at error level regardless of status.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		l := log.With().
			Str("request_id", GetRequestID(c)).
			Str("method", c.Request.Method).
			Str("route", routeOf(c)).
			Str("remote_ip", c.ClientIP()).
			Str("query", truncate(c.Request.URL.RawQuery, maxQueryLogLength)).
			Logger()
		c.Set(loggerKey, &l)

		c.Next()

		status := c.Writer.Status()
		ev := l.Info()
		switch {
		case len(c.Errors) > 0:
			ev = l.Error().Str("errors", c.Errors.String())
		case status >= 500:
			ev = l.Error()
		case status >= 400:
			ev = l.Warn()
		}
		if id := c.Param("id"); id != "" {
			ev = ev.Str("target_id", id)
		}
		if IsReplay(c) {
			ev = ev.Bool("idempotent_replay", true)
		}
		ev.
			Str("viewer", UserID(c)).
			Int("status", status).
			Int("bytes_out", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

// Recovery logs a panic with its stack, route and viewer, and answers with
// the JSON 500 envelope when nothing was written yet.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			rid := GetRequestID(c)
			log.Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Str("request_id", rid).
				Str("route", routeOf(c)).
				Str("viewer", UserID(c)).
				Msg("panic recovered")

			if c.Writer.Written() {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.Header(requestIDHeader, rid)
			abortJSON(c, http.StatusInternalServerError, "internal_error", "internal server error")
		}()
		c.Next()
	}
}

// LoggerFrom returns the request-scoped logger, or the global logger when
// no access logger ran.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if lg, ok := v.(*zerolog.Logger); ok {
			return lg
		}
	}
	l := log.With().Logger()
	return &l
}

// routeOf prefers the registered route; unmatched paths are logged raw but
// capped.
func routeOf(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return truncate(c.Request.URL.Path, maxPathLogLength)
}

// truncate caps s at max bytes. A max <= 0 disables truncation.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
