package app

import "time"

// Config contains all runtime configuration loaded from environment variables.
type Config struct {
	HTTPAddr  string
	LogLevel  string
	LogFormat string

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int

	DatabaseURL string
	DBSchema    string
	DBMaxConns  int32
	DBMinConns  int32

	// DBHealthCheckPeriod controls how often idle pool connections are
	// checked; DBMaxConnIdleTime bounds how long an idle connection is
	// kept before it is closed.
	DBHealthCheckPeriod time.Duration
	DBMaxConnIdleTime   time.Duration
	DBPingTimeout       time.Duration

	// If true, /readyz returns 503 unless the database is configured and
	// reachable.
	ReadinessRequireDB bool

	// If true, startup fails unless both signing secrets are at least
	// 32 bytes long.
	RequireStrongSecrets bool

	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
	CORSMaxAgeSeconds    int
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	return Config{
		HTTPAddr:  EnvString("ROSTER_HTTP_ADDR", "0.0.0.0:8080"),
		LogLevel:  EnvString("ROSTER_LOG_LEVEL", "info"),
		LogFormat: EnvString("ROSTER_LOG_FORMAT", "json"),

		ReadHeaderTimeout: EnvDuration("ROSTER_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       EnvDuration("ROSTER_HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      EnvDuration("ROSTER_HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:       EnvDuration("ROSTER_HTTP_IDLE_TIMEOUT", 60*time.Second),

		MaxHeaderBytes: EnvInt("ROSTER_HTTP_MAX_HEADER_BYTES", 1<<20),

		DatabaseURL: EnvString("ROSTER_DATABASE_URL", ""),
		DBSchema:    EnvString("ROSTER_DB_SCHEMA", "roster"),
		DBMaxConns:  EnvInt32("ROSTER_DB_MAX_CONNS", 10),
		DBMinConns:  EnvInt32("ROSTER_DB_MIN_CONNS", 0),

		DBHealthCheckPeriod: EnvDuration("ROSTER_DB_HEALTHCHECK_PERIOD", time.Minute),
		DBMaxConnIdleTime:   EnvDuration("ROSTER_DB_MAX_CONN_IDLE_TIME", 30*time.Minute),
		DBPingTimeout:       EnvDuration("ROSTER_DB_PING_TIMEOUT", 3*time.Second),

		ReadinessRequireDB: EnvBool("ROSTER_READINESS_REQUIRE_DB", false),

		RequireStrongSecrets: EnvBool("ROSTER_REQUIRE_STRONG_SECRETS", false),

		CORSAllowedOrigins:   EnvStrings("ROSTER_CORS_ALLOWED_ORIGINS", nil),
		CORSAllowCredentials: EnvBool("ROSTER_CORS_ALLOW_CREDENTIALS", true),
		CORSMaxAgeSeconds:    EnvInt("ROSTER_CORS_MAX_AGE_SECONDS", 600),
	}
}
