package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecordsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "records_created_total",
			Help: "Total number of records created by variant",
		},
		[]string{"variant"},
	)

	RecordValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "record_validation_failures_total",
			Help: "Total number of rejected record inputs by variant and field",
		},
		[]string{"variant", "field"},
	)
)
