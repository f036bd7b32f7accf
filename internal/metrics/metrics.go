// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_http_requests_total",
			Help: "Total HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portal_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	PassToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_pass_toggles_total",
			Help: "Pass toggles by selection rule",
		},
		[]string{"strategy"},
	)

	TotalsComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_totals_computed_total",
			Help: "Attendee totals computed by pricing rule",
		},
		[]string{"strategy"},
	)

	Payments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_payments_total",
			Help: "Payments by resulting status",
		},
		[]string{"status"},
	)

	LoginCodesIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portal_login_codes_issued_total",
			Help: "Magic-link login codes sent",
		},
	)
)
