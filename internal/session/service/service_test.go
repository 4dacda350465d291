package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/clock"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/logger"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/session/domain"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/session/repository"
	userdomain "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/user/domain"
)

const testSecret = "test-session-secret-with-32-bytes!!"

var (
	startTime = time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)
	alice     = userdomain.Identity{ID: "user-1", Username: "alice", CreatedAt: startTime}
)

// memoryRepo stores sessions in a map and joins them to a fixed identity set.
type memoryRepo struct {
	sessions   map[domain.ID]domain.Session
	identities map[userdomain.ID]userdomain.Identity
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		sessions:   map[domain.ID]domain.Session{},
		identities: map[userdomain.ID]userdomain.Identity{alice.ID: alice},
	}
}

func (r *memoryRepo) mock() *mockSessionRepo {
	return &mockSessionRepo{
		createFunc: func(_ context.Context, s domain.Session) error {
			r.sessions[s.ID] = s
			return nil
		},
		findActiveFunc: func(_ context.Context, id domain.ID, now time.Time) (domain.Active, error) {
			s, ok := r.sessions[id]
			if !ok || s.Expired(now) {
				return domain.Active{}, repository.ErrSessionNotFound
			}
			identity, ok := r.identities[s.UserID]
			if !ok {
				return domain.Active{}, repository.ErrSessionNotFound
			}
			return domain.Active{Session: s, Identity: identity}, nil
		},
		deleteFunc: func(_ context.Context, id domain.ID) (bool, error) {
			_, ok := r.sessions[id]
			delete(r.sessions, id)
			return ok, nil
		},
	}
}

func setupSessionService(t *testing.T, repo repository.Repository) (*SessionService, *clock.MockClock) {
	t.Helper()
	mockClock := clock.NewMockClock(startTime)
	svc := NewSessionService(SessionServiceDeps{
		Repo:        repo,
		IDGenerator: &sequenceIDGenerator{},
		Clock:       mockClock,
		Secret:      testSecret,
		TTL:         time.Hour,
		Log:         logger.NewWriter(&bytes.Buffer{}, "test", "debug"),
	})
	return svc, mockClock
}

func TestSessionService_OpenThenCurrent(t *testing.T) {
	store := newMemoryRepo()
	svc, _ := setupSessionService(t, store.mock())
	ctx := context.Background()

	token, err := svc.Open(ctx, alice)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	identity, ok, err := svc.Current(ctx, token)
	if err != nil || !ok {
		t.Fatalf("Current = %v, %v", ok, err)
	}
	if identity != alice {
		t.Errorf("identity = %+v, want %+v", identity, alice)
	}

	stored := store.sessions["session-1"]
	if !stored.ExpiresAt.Equal(startTime.Add(time.Hour)) {
		t.Errorf("expires at %v", stored.ExpiresAt)
	}
}

func TestSessionService_TokensAreDistinctPerOpen(t *testing.T) {
	store := newMemoryRepo()
	svc, _ := setupSessionService(t, store.mock())
	ctx := context.Background()

	first, _ := svc.Open(ctx, alice)
	second, _ := svc.Open(ctx, alice)
	if first == second {
		t.Fatal("each open must produce a distinct token")
	}

	if err := svc.Close(ctx, first); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, ok, _ := svc.Current(ctx, second); !ok {
		t.Error("closing one session must not affect another")
	}
}

func TestSessionService_CloseIsIdempotent(t *testing.T) {
	store := newMemoryRepo()
	svc, _ := setupSessionService(t, store.mock())
	ctx := context.Background()

	token, _ := svc.Open(ctx, alice)

	for i := 0; i < 2; i++ {
		if err := svc.Close(ctx, token); err != nil {
			t.Fatalf("Close #%d: %v", i+1, err)
		}
	}

	if _, ok, err := svc.Current(ctx, token); ok || err != nil {
		t.Errorf("closed token resolved: ok=%v err=%v", ok, err)
	}
}

func TestSessionService_CloseIgnoresUnknownTokens(t *testing.T) {
	deleted := false
	svc, _ := setupSessionService(t, &mockSessionRepo{
		deleteFunc: func(context.Context, domain.ID) (bool, error) {
			deleted = true
			return false, nil
		},
	})

	for _, token := range []domain.Token{"", "garbage", "a.b.c"} {
		if err := svc.Close(context.Background(), token); err != nil {
			t.Errorf("Close(%q) = %v", token, err)
		}
	}
	if deleted {
		t.Error("malformed tokens must not reach storage")
	}
}

func TestSessionService_CurrentRejectsExpired(t *testing.T) {
	store := newMemoryRepo()
	svc, mockClock := setupSessionService(t, store.mock())
	ctx := context.Background()

	token, _ := svc.Open(ctx, alice)
	mockClock.Advance(time.Hour + time.Second)

	if _, ok, err := svc.Current(ctx, token); ok || err != nil {
		t.Errorf("expired token resolved: ok=%v err=%v", ok, err)
	}

	if err := svc.Close(ctx, token); err != nil {
		t.Fatalf("Close expired: %v", err)
	}
	if len(store.sessions) != 0 {
		t.Error("closing an expired token should still remove its row")
	}
}

func TestSessionService_CurrentRejectsForeignSignature(t *testing.T) {
	store := newMemoryRepo()
	svc, _ := setupSessionService(t, store.mock())
	ctx := context.Background()

	_, _ = svc.Open(ctx, alice)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		SessionID: "session-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(alice.ID),
			ExpiresAt: jwt.NewNumericDate(startTime.Add(time.Hour)),
		},
	}).SignedString([]byte("another-secret-another-secret-123"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, ok, err := svc.Current(ctx, domain.Token(forged)); ok || err != nil {
		t.Errorf("forged token resolved: ok=%v err=%v", ok, err)
	}
}

func TestSessionService_CurrentRejectsRemovedIdentity(t *testing.T) {
	store := newMemoryRepo()
	svc, _ := setupSessionService(t, store.mock())
	ctx := context.Background()

	token, _ := svc.Open(ctx, alice)
	delete(store.identities, alice.ID)

	if _, ok, err := svc.Current(ctx, token); ok || err != nil {
		t.Errorf("token of removed identity resolved: ok=%v err=%v", ok, err)
	}
}

func TestSessionService_CurrentPropagatesStorageFault(t *testing.T) {
	store := newMemoryRepo()
	repo := store.mock()
	svc, _ := setupSessionService(t, repo)
	ctx := context.Background()

	token, _ := svc.Open(ctx, alice)

	fault := errors.New("connection reset")
	repo.findActiveFunc = func(context.Context, domain.ID, time.Time) (domain.Active, error) {
		return domain.Active{}, fault
	}

	_, ok, err := svc.Current(ctx, token)
	if ok || !errors.Is(err, fault) {
		t.Errorf("Current = %v, %v; want storage fault", ok, err)
	}
}

func TestSessionService_OpenFailures(t *testing.T) {
	t.Run("storage", func(t *testing.T) {
		fault := errors.New("disk full")
		svc, _ := setupSessionService(t, &mockSessionRepo{
			createFunc: func(context.Context, domain.Session) error { return fault },
		})
		if _, err := svc.Open(context.Background(), alice); !errors.Is(err, fault) {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("id generator", func(t *testing.T) {
		svc, _ := setupSessionService(t, &mockSessionRepo{})
		svc.idGenerator = &sequenceIDGenerator{err: errors.New("entropy")}
		if _, err := svc.Open(context.Background(), alice); err == nil {
			t.Error("expected error")
		}
	})
}
