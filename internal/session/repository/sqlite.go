package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/db"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/session/domain"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(sqlDB *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: sqlDB}
}

func (r *SQLiteRepository) Create(ctx context.Context, session domain.Session) error {
	start := time.Now()
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO sessions (id, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		string(session.ID),
		string(session.UserID),
		db.ToMillis(session.CreatedAt),
		db.ToMillis(session.ExpiresAt),
	)
	return db.HandleExecError(db.StoreSQLite, err, "create session", start)
}

func (r *SQLiteRepository) FindActive(ctx context.Context, id domain.ID, now time.Time) (domain.Active, error) {
	start := time.Now()
	row := r.db.QueryRowContext(
		ctx,
		`SELECT s.id, s.user_id, s.created_at, s.expires_at, u.username, u.created_at
		 FROM sessions s
		 JOIN users u ON u.id = s.user_id
		 WHERE s.id = ? AND s.expires_at > ?`,
		string(id),
		db.ToMillis(now),
	)

	var (
		active                             domain.Active
		createdAt, expiresAt, userCreateAt int64
	)
	err := row.Scan(
		&active.Session.ID,
		&active.Session.UserID,
		&createdAt,
		&expiresAt,
		&active.Identity.Username,
		&userCreateAt,
	)
	if err := db.HandleQueryError(db.StoreSQLite, err, ErrSessionNotFound, "find active session", start); err != nil {
		return domain.Active{}, err
	}

	active.Session.CreatedAt = db.FromMillis(createdAt)
	active.Session.ExpiresAt = db.FromMillis(expiresAt)
	active.Identity.ID = active.Session.UserID
	active.Identity.CreatedAt = db.FromMillis(userCreateAt)
	return active, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id domain.ID) (bool, error) {
	start := time.Now()
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, string(id))
	if err := db.HandleExecError(db.StoreSQLite, err, "delete session", start); err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *SQLiteRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	start := time.Now()
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, db.ToMillis(now))
	if err := db.HandleExecError(db.StoreSQLite, err, "delete expired sessions", start); err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
