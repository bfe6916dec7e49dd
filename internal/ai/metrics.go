package ai

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeOK    = "ok"
	outcomeError = "error"
)

var (
	gatewayReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_gateway_requests_total",
			Help: "Model gateway calls by operation and outcome.",
		},
		[]string{"op", "outcome"},
	)

	gatewayLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_gateway_request_duration_seconds",
			Help:    "Duration of model gateway calls in seconds.",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
		},
		[]string{"op"},
	)

	// judgeMalformed counts judge replies that failed to parse.
	judgeMalformed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ai_gateway_judge_malformed_total",
			Help: "Judge responses that could not be parsed.",
		},
	)
)

func init() {
	prometheus.MustRegister(gatewayReqs, gatewayLat, judgeMalformed)
}

func observe(op, outcome string, start time.Time) {
	gatewayReqs.WithLabelValues(op, outcome).Inc()
	gatewayLat.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
