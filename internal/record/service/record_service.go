package service

import (
	"context"

	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/clock"
	commoncrypto "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/crypto"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/logger"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/validation"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/observability/metrics"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/record/domain"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/record/repository"
	userdomain "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/user/domain"
)

type RecordServiceDeps struct {
	Repo        repository.Repository
	IDGenerator commoncrypto.IDGenerator
	Validator   *validation.Validator
	Clock       clock.Clock
	Log         *logger.Logger
}

type RecordService struct {
	repo        repository.Repository
	idGenerator commoncrypto.IDGenerator
	validator   *validation.Validator
	clock       clock.Clock
	log         *logger.Logger
}

func NewRecordService(deps RecordServiceDeps) *RecordService {
	clk := deps.Clock
	if clk == nil {
		clk = clock.NewRealClock()
	}
	v := deps.Validator
	if v == nil {
		v = validation.New()
	}
	return &RecordService{
		repo:        deps.Repo,
		idGenerator: deps.IDGenerator,
		validator:   v,
		clock:       clk,
		log:         deps.Log,
	}
}

// Create validates fields for variant and appends a record owned by ownerID.
// Nothing is stored when validation fails.
func (s *RecordService) Create(ctx context.Context, ownerID userdomain.ID, variant domain.Variant, fields domain.Fields) (domain.Record, error) {
	if ownerID == "" {
		return domain.Record{}, ErrMissingOwner
	}
	if !variant.Valid() {
		return domain.Record{}, ErrUnknownVariant.WithDetails(map[string]any{"variant": string(variant)})
	}

	if err := s.validator.Struct(inputFor(variant, fields)); err != nil {
		if fe, ok := validation.AsFieldError(err); ok {
			metrics.RecordValidationFailures.WithLabelValues(string(variant), fe.Field).Inc()
		}
		s.log.WithFields(ctx, logger.Fields{
			"owner_id": string(ownerID),
			"variant":  string(variant),
			"action":   "record_validation_failed",
		}).Warnf("create record rejected: %v", err)
		return domain.Record{}, validation.ToDomainError(err)
	}

	record := domain.Record{
		OwnerID:     ownerID,
		Variant:     variant,
		Title:       fields.Title,
		Description: fields.Description,
		CreatedAt:   s.clock.Now(),
	}

	// the validator already checked the layout
	switch variant {
	case domain.VariantTask:
		due, err := domain.ParseDate(fields.DueDate)
		if err != nil {
			return domain.Record{}, err
		}
		record.DueDate = &due
	case domain.VariantGoal:
		target, err := domain.ParseDate(fields.TargetDate)
		if err != nil {
			return domain.Record{}, err
		}
		record.TargetDate = &target
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"owner_id": string(ownerID),
			"action":   "record_id_generation_failed",
		}).Errorf("create record failed: id generation error: %v", err)
		return domain.Record{}, err
	}
	record.ID = domain.ID(id)

	if err := s.repo.Create(ctx, record); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"owner_id": string(ownerID),
			"variant":  string(variant),
			"action":   "record_create_failed",
		}).Errorf("create record failed: %v", err)
		return domain.Record{}, err
	}

	metrics.RecordsCreated.WithLabelValues(string(variant)).Inc()
	s.log.WithFields(ctx, logger.Fields{
		"owner_id":  string(ownerID),
		"record_id": id,
		"variant":   string(variant),
		"action":    "record_created",
	}).Info("record created")

	return record, nil
}

// ListByOwner returns ownerID's records of variant in creation order.
func (s *RecordService) ListByOwner(ctx context.Context, ownerID userdomain.ID, variant domain.Variant) ([]domain.Record, error) {
	if ownerID == "" {
		return nil, ErrMissingOwner
	}
	if !variant.Valid() {
		return nil, ErrUnknownVariant.WithDetails(map[string]any{"variant": string(variant)})
	}

	records, err := s.repo.ListByOwner(ctx, ownerID, variant)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"owner_id": string(ownerID),
			"variant":  string(variant),
			"action":   "record_list_failed",
		}).Errorf("list records failed: %v", err)
		return nil, err
	}
	return records, nil
}

func (s *RecordService) Summary(ctx context.Context, ownerID userdomain.ID) (domain.Counts, error) {
	if ownerID == "" {
		return domain.Counts{}, ErrMissingOwner
	}

	counts, err := s.repo.CountByOwner(ctx, ownerID)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"owner_id": string(ownerID),
			"action":   "record_summary_failed",
		}).Errorf("summarize records failed: %v", err)
		return domain.Counts{}, err
	}
	return counts, nil
}
