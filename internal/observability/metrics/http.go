package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TrackerRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracker_requests_total",
			Help: "Total number of tracker HTTP requests",
		},
		[]string{"method", "path"},
	)

	TrackerRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tracker_requests_in_flight",
			Help: "Number of tracker HTTP requests currently being processed",
		},
	)

	TrackerRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tracker_request_duration_seconds",
			Help:    "Duration of tracker HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
