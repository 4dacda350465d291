package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/db"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/record/domain"
	userdomain "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/user/domain"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(sqlDB *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: sqlDB}
}

func (r *SQLiteRepository) Create(ctx context.Context, record domain.Record) error {
	start := time.Now()
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO records (id, owner_id, variant, title, description, due_date, target_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(record.ID),
		string(record.OwnerID),
		string(record.Variant),
		record.Title,
		record.Description,
		sqliteDate(record.DueDate),
		sqliteDate(record.TargetDate),
		db.ToMillis(record.CreatedAt),
	)
	return db.HandleExecError(db.StoreSQLite, err, "create record", start)
}

func (r *SQLiteRepository) ListByOwner(ctx context.Context, ownerID userdomain.ID, variant domain.Variant) ([]domain.Record, error) {
	start := time.Now()
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT id, owner_id, variant, title, description, due_date, target_date, created_at
		 FROM records
		 WHERE owner_id = ? AND variant = ?
		 ORDER BY seq`,
		string(ownerID),
		string(variant),
	)
	if err != nil {
		return nil, db.HandleQueryError(db.StoreSQLite, err, nil, "list records by owner", start)
	}
	defer rows.Close()

	records := make([]domain.Record, 0)
	for rows.Next() {
		var (
			record     domain.Record
			dueDate    sql.NullString
			targetDate sql.NullString
			createdAt  int64
		)
		if err := rows.Scan(
			&record.ID,
			&record.OwnerID,
			&record.Variant,
			&record.Title,
			&record.Description,
			&dueDate,
			&targetDate,
			&createdAt,
		); err != nil {
			return nil, db.HandleQueryError(db.StoreSQLite, err, nil, "scan record", start)
		}
		if record.DueDate, err = fromSQLiteDate(dueDate); err != nil {
			return nil, db.HandleQueryError(db.StoreSQLite, err, nil, "scan record", start)
		}
		if record.TargetDate, err = fromSQLiteDate(targetDate); err != nil {
			return nil, db.HandleQueryError(db.StoreSQLite, err, nil, "scan record", start)
		}
		record.CreatedAt = db.FromMillis(createdAt)
		records = append(records, record)
	}

	if err := db.HandleQueryError(db.StoreSQLite, rows.Err(), nil, "list records by owner", start); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *SQLiteRepository) CountByOwner(ctx context.Context, ownerID userdomain.ID) (domain.Counts, error) {
	start := time.Now()
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT variant, COUNT(*) FROM records WHERE owner_id = ? GROUP BY variant`,
		string(ownerID),
	)
	if err != nil {
		return domain.Counts{}, db.HandleQueryError(db.StoreSQLite, err, nil, "count records by owner", start)
	}
	defer rows.Close()

	var counts domain.Counts
	for rows.Next() {
		var (
			variant string
			n       int64
		)
		if err := rows.Scan(&variant, &n); err != nil {
			return domain.Counts{}, db.HandleQueryError(db.StoreSQLite, err, nil, "scan record count", start)
		}
		counts.Add(domain.Variant(variant), int(n))
	}

	if err := db.HandleQueryError(db.StoreSQLite, rows.Err(), nil, "count records by owner", start); err != nil {
		return domain.Counts{}, err
	}
	return counts, nil
}

func sqliteDate(d *domain.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func fromSQLiteDate(value sql.NullString) (*domain.Date, error) {
	if !value.Valid {
		return nil, nil
	}
	d, err := domain.ParseDate(value.String)
	if err != nil {
		return nil, fmt.Errorf("parse stored date %q: %w", value.String, err)
	}
	return &d, nil
}
