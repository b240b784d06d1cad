// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides SecurityHeaders: hardening headers for the JSON API,
// a viewer-aware Cache-Control policy and HSTS for HTTPS requests. No CSP is
// sent; the service serves no HTML except Swagger UI.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const defaultHSTSMaxAge = 180 * 24 * time.Hour

// SecurityOptions configures SecurityHeaders.
//
// Expose lists response headers browser clients may read (ETag,
// Idempotency-Replayed, Content-Disposition for the shopping list download).
// X-Request-ID is always exposed.
type SecurityOptions struct {
	EnableHSTS bool          // set true only when traffic is HTTPS end-to-end
	HSTSMaxAge time.Duration // defaults to 180 days
	Expose     []string
}

// SecurityHeaders returns a Gin middleware that sets:
//
//   - X-Content-Type-Options, X-Frame-Options, Referrer-Policy and a
//     Permissions-Policy denying device features on every response;
//   - Cache-Control per viewer: anonymous GET/HEAD responses are public
//     but must be revalidated (the recipe list answers with an ETag),
//     responses for an identified viewer carry per-viewer flags such as
//     is_favorited and are never stored, nor are responses to writes;
//   - Strict-Transport-Security for HTTPS requests when enabled;
//   - Access-Control-Expose-Headers merged with opt.Expose.
//
// Cache-Control is set before the handler runs, so a handler may override it.
// It must be mounted after Identity for the viewer split to apply.
func SecurityHeaders(opt SecurityOptions) gin.HandlerFunc {
	maxAge := opt.HSTSMaxAge
	if maxAge <= 0 {
		maxAge = defaultHSTSMaxAge
	}
	hsts := "max-age=" + strconv.Itoa(int(maxAge.Seconds())) + "; includeSubDomains"
	expose := append([]string{"X-Request-ID"}, opt.Expose...)

	return func(c *gin.Context) {
		h := c.Writer.Header()

		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()")

		h.Set("Cache-Control", cacheControl(c))

		if opt.EnableHSTS && isHTTPS(c.Request) {
			h.Set("Strict-Transport-Security", hsts)
		}

		mergeExpose(h, expose)

		c.Next()
	}
}

func cacheControl(c *gin.Context) string {
	switch c.Request.Method {
	case http.MethodGet, http.MethodHead:
	default:
		return "no-store"
	}
	if UserID(c) != "" {
		return "private, no-store"
	}
	return "no-cache"
}

// mergeExpose appends names missing from Access-Control-Expose-Headers,
// keeping whatever CORS middleware already set.
func mergeExpose(h http.Header, names []string) {
	const hdr = "Access-Control-Expose-Headers"
	cur := h.Get(hdr)
	have := map[string]bool{}
	for _, p := range strings.Split(cur, ",") {
		if p = strings.TrimSpace(p); p != "" {
			have[http.CanonicalHeaderKey(p)] = true
		}
	}
	out := cur
	for _, n := range names {
		k := http.CanonicalHeaderKey(n)
		if have[k] {
			continue
		}
		have[k] = true
		if out == "" {
			out = n
		} else {
			out += ", " + n
		}
	}
	if out != "" {
		h.Set(hdr, out)
	}
}

// isHTTPS reports whether the request used HTTPS directly or via a proxy
// that set X-Forwarded-Proto: https.
func isHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
