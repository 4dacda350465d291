package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/observability/metrics"
)

const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"

	pgUniqueViolation = "23505"
)

func extractTableFromOperation(operation string) string {
	operation = strings.ToLower(operation)
	switch {
	case strings.Contains(operation, "session"):
		return "sessions"
	case strings.Contains(operation, "user"):
		return "users"
	case strings.Contains(operation, "record"):
		return "records"
	default:
		return "unknown"
	}
}

func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows)
}

// IsUniqueViolation reports whether err is a UNIQUE/PRIMARY KEY constraint
// failure from either backend.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}

	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

func HandleQueryError(store string, err error, notFoundErr error, operation string, startTime time.Time) error {
	MeasureQueryDuration(store, operation, startTime)

	if err == nil {
		return nil
	}
	if IsNoRows(err) && notFoundErr != nil {
		return notFoundErr
	}
	recordQueryError(store, operation, err)
	return fmt.Errorf("failed to %s: %w", operation, err)
}

func HandleExecError(store string, err error, operation string, startTime time.Time) error {
	MeasureQueryDuration(store, operation, startTime)

	if err == nil {
		return nil
	}
	recordQueryError(store, operation, err)
	return fmt.Errorf("failed to %s: %w", operation, err)
}

func MeasureQueryDuration(store, operation string, startTime time.Time) {
	table := extractTableFromOperation(operation)
	metrics.DBQueryDurationSeconds.WithLabelValues(store, operation, table).Observe(time.Since(startTime).Seconds())
}

func recordQueryError(store, operation string, err error) {
	table := extractTableFromOperation(operation)
	metrics.DBQueryErrors.WithLabelValues(store, operation, table, fmt.Sprintf("%T", err)).Inc()
}
