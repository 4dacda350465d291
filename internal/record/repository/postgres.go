package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/db"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/record/domain"
	userdomain "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/user/domain"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, record domain.Record) error {
	start := time.Now()
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO records (id, owner_id, variant, title, description, due_date, target_date, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		string(record.ID),
		string(record.OwnerID),
		string(record.Variant),
		record.Title,
		record.Description,
		pgDate(record.DueDate),
		pgDate(record.TargetDate),
		record.CreatedAt,
	)
	return db.HandleExecError(db.StorePostgres, err, "create record", start)
}

func (r *PgRepository) ListByOwner(ctx context.Context, ownerID userdomain.ID, variant domain.Variant) ([]domain.Record, error) {
	start := time.Now()
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, owner_id, variant, title, description, due_date, target_date, created_at
		 FROM records
		 WHERE owner_id = $1 AND variant = $2
		 ORDER BY seq`,
		string(ownerID),
		string(variant),
	)
	if err != nil {
		return nil, db.HandleQueryError(db.StorePostgres, err, nil, "list records by owner", start)
	}
	defer rows.Close()

	records := make([]domain.Record, 0)
	for rows.Next() {
		var (
			record     domain.Record
			dueDate    *time.Time
			targetDate *time.Time
		)
		if err := rows.Scan(
			&record.ID,
			&record.OwnerID,
			&record.Variant,
			&record.Title,
			&record.Description,
			&dueDate,
			&targetDate,
			&record.CreatedAt,
		); err != nil {
			return nil, db.HandleQueryError(db.StorePostgres, err, nil, "scan record", start)
		}
		record.DueDate = fromPgDate(dueDate)
		record.TargetDate = fromPgDate(targetDate)
		record.CreatedAt = record.CreatedAt.UTC()
		records = append(records, record)
	}

	if err := db.HandleQueryError(db.StorePostgres, rows.Err(), nil, "list records by owner", start); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *PgRepository) CountByOwner(ctx context.Context, ownerID userdomain.ID) (domain.Counts, error) {
	start := time.Now()
	rows, err := r.pool.Query(
		ctx,
		`SELECT variant, COUNT(*) FROM records WHERE owner_id = $1 GROUP BY variant`,
		string(ownerID),
	)
	if err != nil {
		return domain.Counts{}, db.HandleQueryError(db.StorePostgres, err, nil, "count records by owner", start)
	}
	defer rows.Close()

	var counts domain.Counts
	for rows.Next() {
		var (
			variant string
			n       int64
		)
		if err := rows.Scan(&variant, &n); err != nil {
			return domain.Counts{}, db.HandleQueryError(db.StorePostgres, err, nil, "scan record count", start)
		}
		counts.Add(domain.Variant(variant), int(n))
	}

	if err := db.HandleQueryError(db.StorePostgres, rows.Err(), nil, "count records by owner", start); err != nil {
		return domain.Counts{}, err
	}
	return counts, nil
}

func pgDate(d *domain.Date) any {
	if d == nil {
		return nil
	}
	return d.Time()
}

func fromPgDate(t *time.Time) *domain.Date {
	if t == nil {
		return nil
	}
	d := domain.DateOf(*t)
	return &d
}

