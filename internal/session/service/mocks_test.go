package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/session/domain"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/session/repository"
)

type mockSessionRepo struct {
	createFunc        func(ctx context.Context, session domain.Session) error
	findActiveFunc    func(ctx context.Context, id domain.ID, now time.Time) (domain.Active, error)
	deleteFunc        func(ctx context.Context, id domain.ID) (bool, error)
	deleteExpiredFunc func(ctx context.Context, now time.Time) (int64, error)
}

func (m *mockSessionRepo) Create(ctx context.Context, session domain.Session) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, session)
	}
	return nil
}

func (m *mockSessionRepo) FindActive(ctx context.Context, id domain.ID, now time.Time) (domain.Active, error) {
	if m.findActiveFunc != nil {
		return m.findActiveFunc(ctx, id, now)
	}
	return domain.Active{}, repository.ErrSessionNotFound
}

func (m *mockSessionRepo) Delete(ctx context.Context, id domain.ID) (bool, error) {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return false, nil
}

func (m *mockSessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if m.deleteExpiredFunc != nil {
		return m.deleteExpiredFunc(ctx, now)
	}
	return 0, nil
}

type sequenceIDGenerator struct {
	mu   sync.Mutex
	next int
	err  error
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	if g.err != nil {
		return "", g.err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("session-%d", g.next), nil
}
