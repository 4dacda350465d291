package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/db"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/migrations"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/user/domain"
)

func newTestRepository(t *testing.T) *SQLiteRepository {
	t.Helper()
	ctx := context.Background()

	sqlDB, err := db.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	_, err = migrations.Up(ctx, sqlDB, migrations.SQLite)
	require.NoError(t, err)

	return NewSQLiteRepository(sqlDB)
}

func TestSQLiteRepository_CreateAndFind(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	createdAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	user := domain.User{ID: "user-1", Username: "alice", PasswordHash: "$2a$hash", CreatedAt: createdAt}
	require.NoError(t, repo.Create(ctx, user))

	byName, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user, byName)

	byID, err := repo.FindByID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, user, byID)
}

func TestSQLiteRepository_DuplicateUsername(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, domain.User{ID: "u1", Username: "alice", PasswordHash: "h1", CreatedAt: time.Now()}))

	err := repo.Create(ctx, domain.User{ID: "u2", Username: "alice", PasswordHash: "h2", CreatedAt: time.Now()})
	assert.True(t, errors.Is(err, ErrUsernameAlreadyExists), "got %v", err)

	stored, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.ID("u1"), stored.ID)
}

func TestSQLiteRepository_UsernamesAreCaseSensitive(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, domain.User{ID: "u1", Username: "alice", PasswordHash: "h", CreatedAt: time.Now()}))
	require.NoError(t, repo.Create(ctx, domain.User{ID: "u2", Username: "Alice", PasswordHash: "h", CreatedAt: time.Now()}))

	_, err := repo.FindByUsername(ctx, "ALICE")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSQLiteRepository_NotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
