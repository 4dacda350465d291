package repository

import (
	"context"

	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/record/domain"
	userdomain "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/user/domain"
)

// Repository appends records and reads them back per owner. Every read is
// scoped to a single owner.
type Repository interface {
	Create(ctx context.Context, record domain.Record) error
	ListByOwner(ctx context.Context, ownerID userdomain.ID, variant domain.Variant) ([]domain.Record, error)
	CountByOwner(ctx context.Context, ownerID userdomain.ID) (domain.Counts, error)
}
