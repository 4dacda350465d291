package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/db"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/session/domain"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, session domain.Session) error {
	start := time.Now()
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO sessions (id, user_id, created_at, expires_at) VALUES ($1, $2, $3, $4)`,
		string(session.ID),
		string(session.UserID),
		session.CreatedAt,
		session.ExpiresAt,
	)
	return db.HandleExecError(db.StorePostgres, err, "create session", start)
}

func (r *PgRepository) FindActive(ctx context.Context, id domain.ID, now time.Time) (domain.Active, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`SELECT s.id, s.user_id, s.created_at, s.expires_at, u.username, u.created_at
		 FROM sessions s
		 JOIN users u ON u.id = s.user_id
		 WHERE s.id = $1 AND s.expires_at > $2`,
		string(id),
		now,
	)

	var active domain.Active
	err := row.Scan(
		&active.Session.ID,
		&active.Session.UserID,
		&active.Session.CreatedAt,
		&active.Session.ExpiresAt,
		&active.Identity.Username,
		&active.Identity.CreatedAt,
	)
	if err := db.HandleQueryError(db.StorePostgres, err, ErrSessionNotFound, "find active session", start); err != nil {
		return domain.Active{}, err
	}
	active.Identity.ID = active.Session.UserID
	return active, nil
}

func (r *PgRepository) Delete(ctx context.Context, id domain.ID) (bool, error) {
	start := time.Now()
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, string(id))
	if err := db.HandleExecError(db.StorePostgres, err, "delete session", start); err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PgRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	start := time.Now()
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err := db.HandleExecError(db.StorePostgres, err, "delete expired sessions", start); err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
