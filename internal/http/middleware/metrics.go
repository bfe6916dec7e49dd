// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file exposes Prometheus instrumentation for HTTP traffic. Labels stay
// bounded: the registered route rather than the raw URL, the numeric status,
// and the caller's portal role (client, lawyer, admin or anonymous).
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const roleAnonymous = "anonymous"

var (
	httpReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status", "role"},
	)

	// Latency omits status and role to keep histogram cardinality low.
	httpLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds.",
			// Court turns and assistant answers wait on the model, so the
			// buckets reach well past the defaults.
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "path"},
	)

	httpInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_inflight",
			Help: "Current number of in-flight HTTP requests.",
		},
	)

	httpReqSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_size_bytes",
			Help: "Size of HTTP request bodies in bytes, dominated by document uploads.",
			Buckets: []float64{
				1 << 10, 10 << 10, 100 << 10, // 1..100KiB
				512 << 10, 1 << 20, 2 << 20, 5 << 20, 10 << 20, // 512KiB..10MiB
			},
		},
		[]string{"method", "path"},
	)

	httpRespSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_response_size_bytes",
			Help: "Size of HTTP responses in bytes.",
			Buckets: []float64{
				200, 500, 1 << 10, 5 << 10, 25 << 10, 100 << 10, 500 << 10,
				1 << 20, 5 << 20, 10 << 20,
			},
		},
		[]string{"method", "path"},
	)
)

func init() {
	prometheus.MustRegister(httpReqs, httpLat, httpInflight, httpReqSize, httpRespSize)
}

// Metrics records count, latency, in-flight, request and response sizes.
// Place it after Authenticate-bearing groups have a chance to run; the role
// label is read once the handler chain returns.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpInflight.Inc()
		defer httpInflight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		method := c.Request.Method
		role := accountRole(c)
		if role == "" {
			role = roleAnonymous
		}

		httpReqs.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status()), role).Inc()
		httpLat.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		if n := c.Request.ContentLength; n > 0 {
			httpReqSize.WithLabelValues(method, path).Observe(float64(n))
		}
		// Size is -1 when nothing was written.
		if size := c.Writer.Size(); size >= 0 {
			httpRespSize.WithLabelValues(method, path).Observe(float64(size))
		}
	}
}
