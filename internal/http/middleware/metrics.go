// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file exposes Prometheus instrumentation for HTTP traffic under the
// "foodgram_http" prefix, labelled by
//
//   - method: HTTP method
//   - route:  the registered route (e.g. /api/v1/recipes/:id/favorite);
//     requests that matched no route share the label "unmatched"
//   - caller: "user" when Identity resolved X-User-ID, else "anonymous"
//   - status: numeric status code ("200", "404")
//
// Domain counters (compositions, relation toggles) live in
// internal/observability and are served from the same /metrics endpoint.
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "foodgram"
	metricsSubsystem = "http"

	unmatchedRoute = "unmatched"
)

var (
	httpReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "requests_total",
			Help:      "HTTP requests by method, route, caller kind and status.",
		},
		[]string{"method", "route", "caller", "status"},
	)

	// Recipe lists and compositions hit the store several times, so the
	// buckets reach further than prometheus.DefBuckets at the low end.
	httpLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   []float64{.002, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	httpInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "requests_inflight",
			Help:      "HTTP requests currently being served.",
		},
	)

	// Recipe payloads carry base64 images inline, hence the MiB range.
	httpRespSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "response_size_bytes",
			Help:      "HTTP response body size by method and route.",
			Buckets:   prometheus.ExponentialBuckets(256, 4, 8), // 256B..4MiB
		},
		[]string{"method", "route"},
	)
)

func init() {
	prometheus.MustRegister(httpReqs, httpLat, httpInflight, httpRespSize)
}

// Metrics instruments every request. Responses without a body (size -1) are
// not observed in the size histogram.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpInflight.Inc()
		defer httpInflight.Dec()

		c.Next()

		route := metricRoute(c)
		method := c.Request.Method

		httpReqs.WithLabelValues(method, route, callerKind(c), strconv.Itoa(c.Writer.Status())).Inc()
		httpLat.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		if size := c.Writer.Size(); size >= 0 {
			httpRespSize.WithLabelValues(method, route).Observe(float64(size))
		}
	}
}

// metricRoute is the registered route, never the raw path, so probes for
// random URLs cannot grow the label space.
func metricRoute(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return unmatchedRoute
}

func callerKind(c *gin.Context) string {
	if UserID(c) != "" {
		return "user"
	}
	return "anonymous"
}
