// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements RedactingLogger, the access logger mounted outside
// debug mode. Recipe filters (?author=), profile routes and registration
// carry user ids, e-mail addresses and occasionally credentials, so before
// anything is logged:
//
//   - password-like query parameters lose their value
//   - UUIDs, e-mail addresses and phone numbers are replaced by markers
//   - Authorization, Cookie, Set-Cookie and configured headers are masked
//   - bodies are never logged
//
// Field names match Logger so dashboards work in both modes.
package middleware

import (
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const redactedValue = "[REDACTED]"

// Order matters: secrets first, then UUIDs so the phone pattern cannot eat
// their digit groups.
var (
	redactSecretParamRe = regexp.MustCompile(`(?i)\b((?:current_|new_)?password|token|secret)=[^&]*`)
	redactUUIDRe        = regexp.MustCompile(`(?i)\b[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}\b`)
	redactEmailRe       = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)
	redactPhoneRe       = regexp.MustCompile(`\b(?:\+?\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{3,4}[ .-]?\d{4}\b`)
)

// RedactOptions configures RedactingLogger.
type RedactOptions struct {
	// MaskHeaders lists extra headers (case-insensitive) whose values are
	// replaced wholesale.
	MaskHeaders []string
}

// redact scrubs identifiers and secrets from s.
func redact(s string) string {
	if s == "" {
		return s
	}
	s = redactSecretParamRe.ReplaceAllString(s, "$1="+redactedValue)
	s = redactUUIDRe.ReplaceAllString(s, "[REDACTED:id]")
	s = redactEmailRe.ReplaceAllString(s, "[REDACTED:email]")
	return redactPhoneRe.ReplaceAllString(s, "[REDACTED:phone]")
}

// maskedHeaderSet is the lower-cased set of headers whose value is never logged.
func maskedHeaderSet(extra []string) map[string]struct{} {
	set := map[string]struct{}{
		"authorization": {},
		"cookie":        {},
		"set-cookie":    {},
	}
	for _, h := range extra {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			set[h] = struct{}{}
		}
	}
	return set
}

// RedactingLogger writes the same access line as Logger with the query
// string, headers, viewer and target id scrubbed.
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	masked := maskedHeaderSet(opts.MaskHeaders)

	return func(c *gin.Context) {
		start := time.Now()

		headers := make(map[string]string, len(c.Request.Header))
		for k, vv := range c.Request.Header {
			if _, ok := masked[strings.ToLower(k)]; ok {
				headers[k] = redactedValue
				continue
			}
			headers[k] = redact(strings.Join(vv, ", "))
		}

		rid := GetRequestID(c)
		if rid == "" {
			rid = c.GetHeader(requestIDHeader)
		}
		l := log.With().
			Str("request_id", rid).
			Str("method", c.Request.Method).
			Str("route", routeOf(c)).
			Str("query", truncate(redact(c.Request.URL.RawQuery), maxQueryLogLength)).
			Logger()
		c.Set(loggerKey, &l)

		c.Next()

		status := c.Writer.Status()
		ev := l.Info()
		switch {
		case len(c.Errors) > 0 || status >= 500:
			ev = l.Error()
		case status >= 400:
			ev = l.Warn()
		}
		if id := c.Param("id"); id != "" {
			ev = ev.Str("target_id", redact(id))
		}
		if IsReplay(c) {
			ev = ev.Bool("idempotent_replay", true)
		}
		ev.
			Str("viewer", redact(UserID(c))).
			Int("status", status).
			Int("bytes_out", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Interface("headers", headers).
			Msg("request")
	}
}
