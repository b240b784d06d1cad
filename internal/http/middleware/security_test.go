package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

// securedRouter mounts SecurityHeaders behind an optional fake identity.
func securedRouter(opt SecurityOptions, viewer string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if viewer != "" {
			c.Set(ctxKeyUserID, viewer)
		}
		c.Next()
	})
	r.Use(SecurityHeaders(opt))
	r.Any("/recipes", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/recipes/download_shopping_cart", func(c *gin.Context) {
		c.Header("Cache-Control", "private, max-age=0")
		c.String(http.StatusOK, "flour - 300 g")
	})
	return r
}

func TestSecurityHeaders_Baseline(t *testing.T) {
	r := securedRouter(SecurityOptions{}, "")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/recipes", nil))

	h := w.Header()
	want := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "no-referrer",
		"Permissions-Policy":     "geolocation=(), microphone=(), camera=(), payment=()",
	}
	for k, v := range want {
		if got := h.Get(k); got != v {
			t.Fatalf("%s = %q, want %q", k, got, v)
		}
	}
	if h.Get("Strict-Transport-Security") != "" {
		t.Fatalf("HSTS must be off by default")
	}
}

func TestSecurityHeaders_CacheControlByViewer(t *testing.T) {
	cases := []struct {
		name   string
		viewer string
		method string
		want   string
	}{
		{"anonymous list revalidates", "", http.MethodGet, "no-cache"},
		{"anonymous head revalidates", "", http.MethodHead, "no-cache"},
		{"viewer flags are private", "u1", http.MethodGet, "private, no-store"},
		{"writes never stored", "u1", http.MethodPost, "no-store"},
		{"anonymous write never stored", "", http.MethodDelete, "no-store"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := securedRouter(SecurityOptions{}, tc.viewer)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tc.method, "/recipes", nil))
			if got := w.Header().Get("Cache-Control"); got != tc.want {
				t.Fatalf("Cache-Control = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSecurityHeaders_HandlerMayOverrideCacheControl(t *testing.T) {
	r := securedRouter(SecurityOptions{}, "u1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/recipes/download_shopping_cart", nil))
	if got := w.Header().Get("Cache-Control"); got != "private, max-age=0" {
		t.Fatalf("handler override lost: %q", got)
	}
}

func TestSecurityHeaders_ExposeMerge(t *testing.T) {
	t.Run("request id always exposed", func(t *testing.T) {
		r := securedRouter(SecurityOptions{Expose: []string{"ETag", "Idempotency-Replayed"}}, "")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/recipes", nil))
		want := "X-Request-ID, ETag, Idempotency-Replayed"
		if got := w.Header().Get("Access-Control-Expose-Headers"); got != want {
			t.Fatalf("expose = %q, want %q", got, want)
		}
	})

	t.Run("keeps existing and skips duplicates", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		r := gin.New()
		r.Use(func(c *gin.Context) {
			c.Header("Access-Control-Expose-Headers", "x-request-id, Content-Length")
			c.Next()
		})
		r.Use(SecurityHeaders(SecurityOptions{Expose: []string{"content-length", "Content-Disposition"}}))
		r.GET("/recipes", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/recipes", nil))
		want := "x-request-id, Content-Length, Content-Disposition"
		if got := w.Header().Get("Access-Control-Expose-Headers"); got != want {
			t.Fatalf("expose = %q, want %q", got, want)
		}
	})
}

func TestSecurityHeaders_HSTS(t *testing.T) {
	t.Run("tls with explicit max age", func(t *testing.T) {
		r := securedRouter(SecurityOptions{EnableHSTS: true, HSTSMaxAge: 24 * time.Hour}, "")
		req := httptest.NewRequest(http.MethodGet, "/recipes", nil)
		req.TLS = &tls.ConnectionState{}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if got := w.Header().Get("Strict-Transport-Security"); got != "max-age=86400; includeSubDomains" {
			t.Fatalf("HSTS = %q", got)
		}
	})

	t.Run("proxy header with default max age", func(t *testing.T) {
		r := securedRouter(SecurityOptions{EnableHSTS: true}, "")
		req := httptest.NewRequest(http.MethodGet, "/recipes", nil)
		req.Header.Set("X-Forwarded-Proto", "HTTPS")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if got := w.Header().Get("Strict-Transport-Security"); got != "max-age=15552000; includeSubDomains" {
			t.Fatalf("HSTS = %q", got)
		}
	})

	t.Run("plain http never gets hsts", func(t *testing.T) {
		r := securedRouter(SecurityOptions{EnableHSTS: true}, "")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/recipes", nil))
		if got := w.Header().Get("Strict-Transport-Security"); got != "" {
			t.Fatalf("unexpected HSTS on http: %q", got)
		}
	})
}
