package repository

import (
	"context"
	"time"

	commonerrors "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/errors"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/session/domain"
)

type Repository interface {
	Create(ctx context.Context, session domain.Session) error
	// FindActive returns the session only if it has not expired at now and
	// its user still exists.
	FindActive(ctx context.Context, id domain.ID, now time.Time) (domain.Active, error)
	Delete(ctx context.Context, id domain.ID) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

var ErrSessionNotFound = commonerrors.ErrSessionNotFound
