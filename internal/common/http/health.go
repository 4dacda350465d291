package http

import (
	"context"
	"net/http"

	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/logger"
)

// Pinger is satisfied by *sql.DB and by the pgx pool adapter.
type Pinger interface {
	PingContext(ctx context.Context) error
}

func HealthHandler(store Pinger, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			WriteErrorEnvelope(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed", nil, "")
			return
		}
		if store != nil {
			if err := store.PingContext(r.Context()); err != nil {
				log.WithFields(r.Context(), logger.Fields{
					"action": "health_check_failed",
				}).Errorf("health check failed: %v", err)
				WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
