package service

import (
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/observability/metrics"
)

func recordRegistration(result string) {
	metrics.RegistrationsTotal.WithLabelValues(result).Inc()
}

func recordLogin(result string) {
	metrics.LoginsTotal.WithLabelValues(result).Inc()
}
