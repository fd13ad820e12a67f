package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvDatabaseURL    = "DATABASE_URL"
	EnvDBUser         = "DB_USER"
	EnvDBPass         = "DB_PASS"
	EnvDBHost         = "DB_HOST"
	EnvDBPort         = "DB_PORT"
	EnvDBName         = "DB_NAME"
	EnvAllowedOrigins = "ALLOWED_ORIGINS"
	EnvAppEnv         = "INVENTORY_APP_ENV"
	EnvPort           = "PORT"
	EnvLogLevel       = "INVENTORY_LOG_LEVEL"
	EnvRedisURL       = "REDIS_URL"

	legacyScheme    = "postgres://"
	canonicalScheme = "postgresql://"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	CORS      CORSConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.DB.resolveURL()
	return &cfg, nil
}

type AppConfig struct {
	Env             string        `envconfig:"INVENTORY_APP_ENV" default:"dev"`
	Port            string        `envconfig:"PORT" default:"8000"`
	LogLevel        string        `envconfig:"INVENTORY_LOG_LEVEL" default:"info"`
	LogWarnStack    bool          `envconfig:"INVENTORY_LOG_WARN_STACK" default:"false"`
	ShutdownTimeout time.Duration `envconfig:"INVENTORY_SHUTDOWN_TIMEOUT" default:"10s"`
}

type DBConfig struct {
	DatabaseURL string `envconfig:"DATABASE_URL"`

	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASS"`
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"fastapiproj"`

	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DB_CONN_MAX_IDLE_TIME" default:"10m"`

	resolved string
}

// URL returns the connection URL resolved by Load, or resolves it on demand
// for configs built by hand.
func (db DBConfig) URL() string {
	if db.resolved != "" {
		return db.resolved
	}
	return BuildDatabaseURL(db)
}

func (db *DBConfig) resolveURL() {
	db.resolved = BuildDatabaseURL(*db)
}

// RedisConfig is optional. With neither URL nor Address set the service runs
// without redis and rate limiting is off.
type RedisConfig struct {
	URL          string        `envconfig:"REDIS_URL"`
	Address      string        `envconfig:"REDIS_ADDR"`
	Password     string        `envconfig:"REDIS_PASSWORD"`
	DB           int           `envconfig:"REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"REDIS_WRITE_TIMEOUT" default:"3s"`
}

func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

// RateLimitConfig bounds requests per client IP on the product routes.
// A zero limit or window disables it.
type RateLimitConfig struct {
	Requests int           `envconfig:"INVENTORY_RATE_LIMIT_REQUESTS" default:"120"`
	Window   time.Duration `envconfig:"INVENTORY_RATE_LIMIT_WINDOW" default:"1m"`
}

type CORSConfig struct {
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

// Origins splits the comma separated origin list. Entries are kept verbatim.
func (c CORSConfig) Origins() []string {
	return strings.Split(c.AllowedOrigins, ",")
}

// BuildDatabaseURL prefers an explicit DATABASE_URL and otherwise composes
// one from the discrete settings, escaping the password as userinfo.
func BuildDatabaseURL(db DBConfig) string {
	raw := db.DatabaseURL
	if raw == "" {
		u := &url.URL{
			Scheme: "postgresql",
			User:   url.UserPassword(db.User, db.Password),
			Host:   fmt.Sprintf("%s:%s", db.Host, db.Port),
			Path:   "/" + db.Name,
		}
		raw = u.String()
	}
	return NormalizeScheme(raw)
}

// NormalizeScheme rewrites a leading postgres:// to postgresql://. Only the
// first occurrence is touched.
func NormalizeScheme(raw string) string {
	if strings.HasPrefix(raw, legacyScheme) {
		return strings.Replace(raw, legacyScheme, canonicalScheme, 1)
	}
	return raw
}
