package db

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/constants"
)

const memoryPath = ":memory:"

// OpenSQLite opens a SQLite database with foreign keys enforced. An in-memory
// database is pinned to a single connection so every query sees the same data.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	inMemory := path == memoryPath
	if !inMemory {
		path = filepath.Clean(path)
	}

	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)", path, constants.SQLiteBusyTimeoutMillis)
	if !inMemory {
		dsn += "&_pragma=journal_mode(WAL)"
	}

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if inMemory {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
		sqlDB.SetConnMaxIdleTime(0)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	var enabled int
	if err := sqlDB.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&enabled); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("check sqlite foreign key pragma: %w", err)
	}
	if enabled != 1 {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlite foreign keys are disabled")
	}

	return sqlDB, nil
}

func ToMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func FromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}
