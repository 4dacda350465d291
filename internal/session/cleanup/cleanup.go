package cleanup

import (
	"context"
	"time"

	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/clock"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/constants"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/logger"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/observability/metrics"
)

type ExpiredDeleter interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// StartSessionCleanup removes expired session rows every interval until ctx
// is cancelled. Expired sessions are already rejected on lookup; this only
// keeps the table small.
func StartSessionCleanup(ctx context.Context, repo ExpiredDeleter, clk clock.Clock, interval time.Duration, log *logger.Logger) {
	if interval <= 0 {
		interval = constants.DefaultSessionCleanupInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			RunOnce(ctx, repo, clk, log)
		}
	}
}

func RunOnce(ctx context.Context, repo ExpiredDeleter, clk clock.Clock, log *logger.Logger) int64 {
	deleted, err := repo.DeleteExpired(ctx, clk.Now())
	if err != nil {
		log.WithFields(ctx, logger.Fields{
			"action": "session_cleanup_failed",
		}).Errorf("session cleanup failed: %v", err)
		return 0
	}
	if deleted > 0 {
		metrics.SessionsCleanupDeleted.Add(float64(deleted))
		log.WithFields(ctx, logger.Fields{
			"deleted": deleted,
			"action":  "session_cleanup",
		}).Infof("session cleanup: deleted %d expired sessions", deleted)
	}
	return deleted
}
