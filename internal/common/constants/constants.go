package constants

import "time"

const (
	UsernameMaxLength = 64
	PasswordMaxLength = 72

	RecordTitleMaxLength       = 200
	RecordDescriptionMaxLength = 4000
	DateLayout                 = "2006-01-02"

	SessionTokenIssuer = "tracker"
	SessionCookieName  = "tracker_session"

	DefaultMaxRequestSize = 1 << 20

	DBPoolMaxConns        = 25
	DBPoolMinConns        = 5
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = time.Second
	DBPoolMetricsInterval = 30 * time.Second
	DBQueryTimeout        = 30 * time.Second

	SQLiteBusyTimeoutMillis = 5000

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DefaultHTTPPort               = "8080"
	DefaultRequestTimeout         = 5 * time.Second
	DefaultSessionTTL             = 24 * time.Hour
	DefaultSessionCleanupInterval = time.Hour
	SessionSecretMinLength        = 32

	RateLimitCleanupInterval           = 5 * time.Minute
	RateLimitLoginRequestsPerSecond    = 0.5
	RateLimitLoginBurst                = 5
	RateLimitRegisterRequestsPerSecond = 0.2
	RateLimitRegisterBurst             = 3
	RateLimitLogoutRequestsPerSecond   = 1
	RateLimitLogoutBurst               = 5
	RateLimitGeneralRequestsPerSecond  = 20
	RateLimitGeneralBurst              = 40

	LoggerDefaultDir = "/var/log/tracker"
	LoggerFileName   = "app.log"
	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
