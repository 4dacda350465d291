package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/jackc/pgx/v4/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/auth/http"
	authservice "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/auth/service"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/clock"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/config"
	commoncrypto "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/crypto"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/db"
	commonhttp "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/http"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/logger"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/validation"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/migrations"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/observability/metrics"
	recordhttp "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/record/http"
	recordrepo "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/record/repository"
	recordservice "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/record/service"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/session/cleanup"
	sessionmw "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/session/middleware"
	sessionrepo "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/session/repository"
	sessionservice "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/session/service"
	userrepo "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/user/repository"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/web"
)

// Options overrides collaborators that tests need to control.
type Options struct {
	Clock      clock.Clock
	BcryptCost int
}

type App struct {
	Config  config.TrackerConfig
	Log     *logger.Logger
	Store   config.StoreKind
	Handler http.Handler

	Users    userrepo.Repository
	Sessions *sessionservice.SessionService
	Auth     *authservice.AuthService
	Records  *recordservice.RecordService

	clock       clock.Clock
	sessionRepo sessionrepo.Repository
	rateLimiter *commonhttp.StrictRateLimiter
	closers     []func()
}

type stores struct {
	kind     config.StoreKind
	pinger   commonhttp.Pinger
	users    userrepo.Repository
	sessions sessionrepo.Repository
	records  recordrepo.Repository
	closers  []func()
}

// NewApp opens the store named by cfg.DatabaseURL, migrates it and wires
// every service and handler. Close releases what NewApp opened.
func NewApp(ctx context.Context, cfg config.TrackerConfig, log *logger.Logger, opts Options) (*App, error) {
	clk := opts.Clock
	if clk == nil {
		clk = clock.NewRealClock()
	}

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	idGenerator := commoncrypto.NewUUIDGenerator()
	validator := validation.New()

	sessions := sessionservice.NewSessionService(sessionservice.SessionServiceDeps{
		Repo:        st.sessions,
		IDGenerator: idGenerator,
		Clock:       clk,
		Secret:      cfg.SessionSecret,
		TTL:         cfg.SessionTTL,
		Log:         log,
	})

	auth := authservice.NewAuthService(authservice.AuthServiceDeps{
		Users:       st.users,
		Sessions:    sessions,
		Hasher:      commoncrypto.NewBcryptHasher(opts.BcryptCost),
		IDGenerator: idGenerator,
		Validator:   validator,
		Clock:       clk,
		Log:         log,
	})

	records := recordservice.NewRecordService(recordservice.RecordServiceDeps{
		Repo:        st.records,
		IDGenerator: idGenerator,
		Validator:   validator,
		Clock:       clk,
		Log:         log,
	})

	cookie := sessionmw.CookiePolicy{Secure: cfg.CookieSecure, MaxAge: cfg.SessionTTL}

	mux := http.NewServeMux()
	mux.Handle("/api/auth/", authhttp.NewHandler(authhttp.HandlerDeps{
		Auth:           auth,
		Sessions:       sessions,
		Cookie:         cookie,
		RequestTimeout: cfg.RequestTimeout,
		Log:            log,
	}))
	mux.Handle("/api/", recordhttp.NewHandler(recordhttp.HandlerDeps{
		Records:        records,
		Sessions:       sessions,
		RequestTimeout: cfg.RequestTimeout,
		Log:            log,
	}))
	mux.Handle("/health", commonhttp.HealthHandler(st.pinger, log))
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", web.NewHandler(web.HandlerDeps{
		Auth:           auth,
		Records:        records,
		Sessions:       sessions,
		Cookie:         cookie,
		RequestTimeout: cfg.RequestTimeout,
		Log:            log,
	}))

	rateLimiter := commonhttp.NewStrictRateLimiter()
	handler := rateLimiter.Middleware(commonhttp.BuildBaseHandler(log, mux))

	log.Infof("tracker wired: store=%s session_ttl=%v", st.kind, cfg.SessionTTL)

	return &App{
		Config:      cfg,
		Log:         log,
		Store:       st.kind,
		Handler:     handler,
		Users:       st.users,
		Sessions:    sessions,
		Auth:        auth,
		Records:     records,
		clock:       clk,
		sessionRepo: st.sessions,
		rateLimiter: rateLimiter,
		closers:     st.closers,
	}, nil
}

// StartSessionCleanup runs the expired-session sweeper until ctx is done.
func (a *App) StartSessionCleanup(ctx context.Context) {
	go cleanup.StartSessionCleanup(ctx, a.sessionRepo, a.clock, a.Config.SessionCleanupInterval, a.Log)
}

func (a *App) Close() {
	a.rateLimiter.Stop()
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func openStores(ctx context.Context, cfg config.TrackerConfig, log *logger.Logger) (*stores, error) {
	kind, err := cfg.Store()
	if err != nil {
		return nil, err
	}

	switch kind {
	case config.StorePostgres:
		return openPostgres(ctx, cfg, log)
	case config.StoreSQLite:
		return openSQLite(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unsupported store %q", kind)
	}
}

func openPostgres(ctx context.Context, cfg config.TrackerConfig, log *logger.Logger) (*stores, error) {
	pool, err := db.NewPool(ctx, log, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	sqlDB := stdlib.OpenDB(*pool.Config().ConnConfig)
	defer sqlDB.Close()

	if err := migrate(ctx, sqlDB, migrations.Postgres, db.StorePostgres, log); err != nil {
		pool.Close()
		return nil, err
	}

	return &stores{
		kind:     config.StorePostgres,
		pinger:   poolPinger{pool: pool},
		users:    userrepo.NewPgRepository(pool),
		sessions: sessionrepo.NewPgRepository(pool),
		records:  recordrepo.NewPgRepository(pool),
		closers:  []func(){pool.Close},
	}, nil
}

func openSQLite(ctx context.Context, cfg config.TrackerConfig, log *logger.Logger) (*stores, error) {
	sqlDB, err := db.OpenSQLite(ctx, cfg.SQLitePath())
	if err != nil {
		return nil, err
	}

	if err := migrate(ctx, sqlDB, migrations.SQLite, db.StoreSQLite, log); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	log.Infof("sqlite database opened: %s", cfg.SQLitePath())

	return &stores{
		kind:     config.StoreSQLite,
		pinger:   sqlDB,
		users:    userrepo.NewSQLiteRepository(sqlDB),
		sessions: sessionrepo.NewSQLiteRepository(sqlDB),
		records:  recordrepo.NewSQLiteRepository(sqlDB),
		closers:  []func(){func() { _ = sqlDB.Close() }},
	}, nil
}

func migrate(ctx context.Context, sqlDB *sql.DB, dialect migrations.Dialect, store string, log *logger.Logger) error {
	version, err := migrations.Up(ctx, sqlDB, dialect)
	if err != nil {
		return err
	}
	metrics.DBMigrationVersion.WithLabelValues(store).Set(float64(version))
	log.Infof("%s schema at version %d", store, version)
	return nil
}

type poolPinger struct {
	pool *pgxpool.Pool
}

func (p poolPinger) PingContext(ctx context.Context) error {
	return p.pool.Ping(ctx)
}
