package http

import (
	"net/http"
	"runtime/debug"

	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/logger"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/observability/metrics"
)

func RecoveryMiddleware(log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					metrics.PanicsRecovered.Inc()
					log.Criticalf("panic recovered path=%s: %v\n%s", r.URL.Path, err, debug.Stack())
					WriteErrorEnvelope(w, http.StatusInternalServerError, CodeInternal, "internal server error", nil, TraceIDFromContext(r.Context()))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
