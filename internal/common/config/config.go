package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/constants"
	commonerrors "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/errors"
)

type StoreKind string

const (
	StorePostgres StoreKind = "postgres"
	StoreSQLite   StoreKind = "sqlite"
)

const sqliteScheme = "sqlite://"

type TrackerConfig struct {
	HTTPPort               string        `env:"TRACKER_HTTP_PORT" envDefault:"8080"`
	DatabaseURL            string        `env:"DATABASE_URL"`
	SessionSecret          string        `env:"SESSION_SECRET"`
	SessionTTL             time.Duration `env:"TRACKER_SESSION_TTL" envDefault:"24h"`
	RequestTimeout         time.Duration `env:"TRACKER_REQUEST_TIMEOUT" envDefault:"5s"`
	SessionCleanupInterval time.Duration `env:"TRACKER_SESSION_CLEANUP_INTERVAL" envDefault:"1h"`
	CookieSecure           bool          `env:"TRACKER_COOKIE_SECURE" envDefault:"false"`
	LogDir                 string        `env:"LOG_DIR"`
	LogLevel               string        `env:"LOG_LEVEL" envDefault:"INFO"`
}

func LoadTrackerConfig() (TrackerConfig, error) {
	var cfg TrackerConfig
	if err := env.Parse(&cfg); err != nil {
		return TrackerConfig{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return TrackerConfig{}, fmt.Errorf("%w: DATABASE_URL", commonerrors.ErrMissingRequiredEnv)
	}
	if cfg.SessionSecret == "" {
		return TrackerConfig{}, fmt.Errorf("%w: SESSION_SECRET", commonerrors.ErrMissingRequiredEnv)
	}
	if err := validateSessionSecret(cfg.SessionSecret); err != nil {
		return TrackerConfig{}, err
	}
	if _, err := cfg.Store(); err != nil {
		return TrackerConfig{}, err
	}

	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = constants.DefaultSessionTTL
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = constants.DefaultRequestTimeout
	}
	if cfg.SessionCleanupInterval <= 0 {
		cfg.SessionCleanupInterval = constants.DefaultSessionCleanupInterval
	}

	return cfg, nil
}

// Store reports which backend DATABASE_URL selects.
func (c TrackerConfig) Store() (StoreKind, error) {
	switch {
	case strings.HasPrefix(c.DatabaseURL, "postgres://"), strings.HasPrefix(c.DatabaseURL, "postgresql://"):
		return StorePostgres, nil
	case strings.HasPrefix(c.DatabaseURL, sqliteScheme) && len(c.DatabaseURL) > len(sqliteScheme):
		return StoreSQLite, nil
	default:
		return "", commonerrors.ErrUnsupportedDatabaseURL
	}
}

// SQLitePath returns the file path (or ":memory:") of a sqlite:// URL.
func (c TrackerConfig) SQLitePath() string {
	return strings.TrimPrefix(c.DatabaseURL, sqliteScheme)
}

func validateSessionSecret(secret string) error {
	if len(secret) < constants.SessionSecretMinLength {
		return commonerrors.ErrInvalidSessionSecret.WithCause(fmt.Errorf("got %d bytes", len(secret)))
	}
	return nil
}
