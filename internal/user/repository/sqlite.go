package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/db"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/user/domain"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(sqlDB *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: sqlDB}
}

func (r *SQLiteRepository) Create(ctx context.Context, user domain.User) error {
	start := time.Now()
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO users (id, username, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		string(user.ID),
		user.Username,
		user.PasswordHash,
		db.ToMillis(user.CreatedAt),
	)
	if db.IsUniqueViolation(err) {
		db.MeasureQueryDuration(db.StoreSQLite, "create user", start)
		return ErrUsernameAlreadyExists.WithCause(err)
	}
	return db.HandleExecError(db.StoreSQLite, err, "create user", start)
}

func (r *SQLiteRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.findOne(ctx, "find user by username",
		`SELECT id, username, password_hash, created_at FROM users WHERE username = ?`, username)
}

func (r *SQLiteRepository) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	return r.findOne(ctx, "find user by id",
		`SELECT id, username, password_hash, created_at FROM users WHERE id = ?`, string(id))
}

func (r *SQLiteRepository) findOne(ctx context.Context, operation, query string, arg string) (domain.User, error) {
	start := time.Now()
	row := r.db.QueryRowContext(ctx, query, arg)

	var (
		user      domain.User
		createdAt int64
	)
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &createdAt)
	if err := db.HandleQueryError(db.StoreSQLite, err, ErrUserNotFound, operation, start); err != nil {
		return domain.User{}, err
	}
	user.CreatedAt = db.FromMillis(createdAt)
	return user, nil
}
