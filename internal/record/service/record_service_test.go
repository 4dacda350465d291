package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/clock"
	commonerrors "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/errors"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/logger"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/record/domain"
	userdomain "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/user/domain"
)

var startTime = time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)

// memoryRepo keeps records in insertion order.
type memoryRepo struct {
	mu        sync.Mutex
	records   []domain.Record
	createErr error
}

func (r *memoryRepo) Create(_ context.Context, record domain.Record) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return nil
}

func (r *memoryRepo) ListByOwner(_ context.Context, ownerID userdomain.ID, variant domain.Variant) ([]domain.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Record{}
	for _, rec := range r.records {
		if rec.OwnerID == ownerID && rec.Variant == variant {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memoryRepo) CountByOwner(_ context.Context, ownerID userdomain.ID) (domain.Counts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var counts domain.Counts
	for _, rec := range r.records {
		if rec.OwnerID == ownerID {
			counts.Add(rec.Variant, 1)
		}
	}
	return counts, nil
}

type sequenceIDGenerator struct {
	next int
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	g.next++
	return fmt.Sprintf("rec-%d", g.next), nil
}

func setupRecordService(t *testing.T) (*RecordService, *memoryRepo) {
	t.Helper()
	repo := &memoryRepo{}
	svc := NewRecordService(RecordServiceDeps{
		Repo:        repo,
		IDGenerator: &sequenceIDGenerator{},
		Clock:       clock.NewMockClock(startTime),
		Log:         logger.NewWriter(&bytes.Buffer{}, "test", "debug"),
	})
	return svc, repo
}

func TestRecordService_CreateTaskThenList(t *testing.T) {
	svc, _ := setupRecordService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "owner-1", domain.VariantTask, domain.Fields{
		Title:       "X",
		Description: "do X",
		DueDate:     "2024-01-01",
		TargetDate:  "ignored",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != "rec-1" || created.DueDate == nil || created.DueDate.String() != "2024-01-01" {
		t.Errorf("created = %+v", created)
	}
	if created.TargetDate != nil {
		t.Error("task must not carry a target date")
	}
	if !created.CreatedAt.Equal(startTime) {
		t.Errorf("CreatedAt = %v", created.CreatedAt)
	}

	own, err := svc.ListByOwner(ctx, "owner-1", domain.VariantTask)
	if err != nil {
		t.Fatal(err)
	}
	if len(own) != 1 || own[0].ID != created.ID {
		t.Errorf("own = %+v", own)
	}

	other, err := svc.ListByOwner(ctx, "owner-2", domain.VariantTask)
	if err != nil {
		t.Fatal(err)
	}
	if len(other) != 0 {
		t.Errorf("other owner sees %d records", len(other))
	}
}

func TestRecordService_CreateValidation(t *testing.T) {
	tests := []struct {
		name      string
		variant   domain.Variant
		fields    domain.Fields
		wantField string
		wantMsg   string
	}{
		{"task without title", domain.VariantTask, domain.Fields{Description: "d", DueDate: "2024-01-01"}, "title", "missing field: title"},
		{"blank title", domain.VariantHabit, domain.Fields{Title: "  ", Description: "d"}, "title", "missing field: title"},
		{"habit without description", domain.VariantHabit, domain.Fields{Title: "t"}, "description", "missing field: description"},
		{"task without due date", domain.VariantTask, domain.Fields{Title: "t", Description: "d"}, "due_date", "missing field: due_date"},
		{"task with bad due date", domain.VariantTask, domain.Fields{Title: "t", Description: "d", DueDate: "tomorrow"}, "due_date", "invalid field: due_date"},
		{"goal without target date", domain.VariantGoal, domain.Fields{Title: "t", Description: "d", DueDate: "2024-01-01"}, "target_date", "missing field: target_date"},
		{"title too long", domain.VariantHabit, domain.Fields{Title: strings.Repeat("x", 201), Description: "d"}, "title", "invalid field: title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := setupRecordService(t)

			_, err := svc.Create(context.Background(), "owner-1", tt.variant, tt.fields)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
			de, _ := commonerrors.AsDomainError(err)
			if de.Details()["field"] != tt.wantField {
				t.Errorf("field = %v, want %s", de.Details()["field"], tt.wantField)
			}
			if de.Message() != tt.wantMsg {
				t.Errorf("message = %q, want %q", de.Message(), tt.wantMsg)
			}
			if len(repo.records) != 0 {
				t.Error("failed validation must store nothing")
			}
		})
	}
}

func TestRecordService_HabitIgnoresDates(t *testing.T) {
	svc, _ := setupRecordService(t)

	created, err := svc.Create(context.Background(), "owner-1", domain.VariantHabit, domain.Fields{
		Title: "read", Description: "20 pages", DueDate: "not-a-date",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.DueDate != nil || created.TargetDate != nil {
		t.Errorf("habit carries dates: %+v", created)
	}
}

func TestRecordService_UnknownVariantAndOwner(t *testing.T) {
	svc, _ := setupRecordService(t)
	ctx := context.Background()
	fields := domain.Fields{Title: "t", Description: "d"}

	if _, err := svc.Create(ctx, "owner-1", domain.Variant("note"), fields); !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("unknown variant err = %v", err)
	}
	if _, err := svc.Create(ctx, "", domain.VariantHabit, fields); !errors.Is(err, ErrMissingOwner) {
		t.Errorf("missing owner err = %v", err)
	}
	if _, err := svc.ListByOwner(ctx, "", domain.VariantHabit); !errors.Is(err, ErrMissingOwner) {
		t.Errorf("list missing owner err = %v", err)
	}
}

func TestRecordService_ListKeepsCreationOrder(t *testing.T) {
	svc, _ := setupRecordService(t)
	ctx := context.Background()

	for _, title := range []string{"c", "a", "b"} {
		if _, err := svc.Create(ctx, "owner-1", domain.VariantGoal, domain.Fields{
			Title: title, Description: "d", TargetDate: "2030-01-01",
		}); err != nil {
			t.Fatal(err)
		}
	}

	goals, err := svc.ListByOwner(ctx, "owner-1", domain.VariantGoal)
	if err != nil {
		t.Fatal(err)
	}
	var titles []string
	for _, g := range goals {
		titles = append(titles, g.Title)
	}
	if strings.Join(titles, ",") != "c,a,b" {
		t.Errorf("order = %v", titles)
	}
}

func TestRecordService_StorageError(t *testing.T) {
	svc, repo := setupRecordService(t)
	boom := errors.New("disk full")
	repo.createErr = boom

	_, err := svc.Create(context.Background(), "owner-1", domain.VariantHabit, domain.Fields{Title: "t", Description: "d"})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestRecordService_Summary(t *testing.T) {
	svc, _ := setupRecordService(t)
	ctx := context.Background()

	_, _ = svc.Create(ctx, "owner-1", domain.VariantHabit, domain.Fields{Title: "h", Description: "d"})
	_, _ = svc.Create(ctx, "owner-1", domain.VariantTask, domain.Fields{Title: "t", Description: "d", DueDate: "2024-01-01"})
	_, _ = svc.Create(ctx, "owner-2", domain.VariantGoal, domain.Fields{Title: "g", Description: "d", TargetDate: "2024-01-01"})

	counts, err := svc.Summary(ctx, "owner-1")
	if err != nil {
		t.Fatal(err)
	}
	if counts != (domain.Counts{Habits: 1, Tasks: 1}) {
		t.Errorf("counts = %+v", counts)
	}
}
