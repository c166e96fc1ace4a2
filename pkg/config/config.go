package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Idempotency   IdempotencyConfig
	GoogleMaps    GoogleMapsConfig
	Pricing       PricingConfig
	Notifications NotificationsConfig
	SMTP          SMTPConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Notifications.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDatabase reads only the App and DB sections, for tools that never
// touch redis or auth.
func LoadDatabase() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg.App); err != nil {
		return nil, fmt.Errorf("parsing app config: %w", err)
	}
	if err := envconfig.Process(EnvPrefix, &cfg.DB); err != nil {
		return nil, fmt.Errorf("parsing db config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"GRAMBAZAAR_APP_ENV" required:"true"`
	Port         string `envconfig:"GRAMBAZAAR_APP_PORT" default:"5000"`
	LogLevel     string `envconfig:"GRAMBAZAAR_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GRAMBAZAAR_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"GRAMBAZAAR_LOG_FORMAT" default:"json"`

	CORSOrigins []string `envconfig:"GRAMBAZAAR_CORS_ORIGINS"`
	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	// Only enable behind a proxy that overwrites those headers.
	TrustProxy bool `envconfig:"GRAMBAZAAR_TRUST_PROXY" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// ConsoleLogs reports whether logs should be pretty-printed.
func (a AppConfig) ConsoleLogs() bool {
	return strings.EqualFold(a.LogFormat, "console")
}

type DBConfig struct {
	DSN string `envconfig:"GRAMBAZAAR_DB_DSN"`

	Host     string `envconfig:"GRAMBAZAAR_DB_HOST"`
	Port     int    `envconfig:"GRAMBAZAAR_DB_PORT" default:"5432"`
	User     string `envconfig:"GRAMBAZAAR_DB_USER"`
	Password string `envconfig:"GRAMBAZAAR_DB_PASSWORD"`
	Name     string `envconfig:"GRAMBAZAAR_DB_NAME"`
	SSLMode  string `envconfig:"GRAMBAZAAR_DB_SSLMODE" default:"disable"`

	MaxOpenConns     int           `envconfig:"GRAMBAZAAR_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns     int           `envconfig:"GRAMBAZAAR_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime  time.Duration `envconfig:"GRAMBAZAAR_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime  time.Duration `envconfig:"GRAMBAZAAR_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	RunMigrationsDev bool          `envconfig:"GRAMBAZAAR_DB_RUN_MIGRATIONS_DEV" default:"true"`

	SlowQueryThreshold time.Duration `envconfig:"GRAMBAZAAR_DB_SLOW_QUERY_THRESHOLD" default:"250ms"`
	ConnectAttempts    int           `envconfig:"GRAMBAZAAR_DB_CONNECT_ATTEMPTS" default:"5"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GRAMBAZAAR_REDIS_URL"`
	Address      string        `envconfig:"GRAMBAZAAR_REDIS_ADDR" default:"localhost:6379"`
	Password     string        `envconfig:"GRAMBAZAAR_REDIS_PASSWORD"`
	DB           int           `envconfig:"GRAMBAZAAR_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GRAMBAZAAR_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GRAMBAZAAR_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GRAMBAZAAR_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GRAMBAZAAR_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GRAMBAZAAR_REDIS_WRITE_TIMEOUT" default:"5s"`
	KeyPrefix    string        `envconfig:"GRAMBAZAAR_REDIS_KEY_PREFIX" default:"gb"`
}

type JWTConfig struct {
	Secret     string        `envconfig:"GRAMBAZAAR_JWT_SECRET" required:"true"`
	Issuer     string        `envconfig:"GRAMBAZAAR_JWT_ISSUER" default:"grambazaar"`
	Expiration time.Duration `envconfig:"GRAMBAZAAR_JWT_EXPIRATION" default:"168h"`
	Leeway     time.Duration `envconfig:"GRAMBAZAAR_JWT_LEEWAY" default:"30s"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"GRAMBAZAAR_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"GRAMBAZAAR_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"GRAMBAZAAR_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"GRAMBAZAAR_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"GRAMBAZAAR_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"GRAMBAZAAR_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginIPLimit    int           `envconfig:"GRAMBAZAAR_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	LoginEmailLimit int           `envconfig:"GRAMBAZAAR_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"10"`
	RegisterWindow  time.Duration `envconfig:"GRAMBAZAAR_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterIPLimit int           `envconfig:"GRAMBAZAAR_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type IdempotencyConfig struct {
	OrderCreateTTL time.Duration `envconfig:"GRAMBAZAAR_IDEMPOTENCY_ORDER_CREATE_TTL" default:"24h"`
}

type GoogleMapsConfig struct {
	APIKey  string        `envconfig:"GRAMBAZAAR_GOOGLE_MAPS_API_KEY"`
	Region  string        `envconfig:"GRAMBAZAAR_GOOGLE_MAPS_REGION" default:"in"`
	Timeout time.Duration `envconfig:"GRAMBAZAAR_GOOGLE_MAPS_TIMEOUT" default:"5s"`
}

// Enabled reports whether destination addresses can be geocoded.
func (g GoogleMapsConfig) Enabled() bool {
	return strings.TrimSpace(g.APIKey) != ""
}

// PricingConfig holds the delivery fee schedule in paise and kilometres.
type PricingConfig struct {
	FreeDeliveryThresholdPaise int64   `envconfig:"GRAMBAZAAR_PRICING_FREE_DELIVERY_THRESHOLD_PAISE" default:"50000"`
	BaseFeePaise               int64   `envconfig:"GRAMBAZAAR_PRICING_BASE_FEE_PAISE" default:"2000"`
	IncludedKm                 float64 `envconfig:"GRAMBAZAAR_PRICING_INCLUDED_KM" default:"2"`
	PerKmPaise                 int64   `envconfig:"GRAMBAZAAR_PRICING_PER_KM_PAISE" default:"500"`
	FallbackDistanceKm         float64 `envconfig:"GRAMBAZAAR_PRICING_FALLBACK_DISTANCE_KM" default:"3"`
}

type NotificationsConfig struct {
	Mode        string        `envconfig:"GRAMBAZAAR_NOTIFICATIONS_MODE" default:"inline"`
	Workers     int           `envconfig:"GRAMBAZAAR_NOTIFICATIONS_WORKERS" default:"4"`
	QueueSize   int           `envconfig:"GRAMBAZAAR_NOTIFICATIONS_QUEUE_SIZE" default:"256"`
	SendTimeout time.Duration `envconfig:"GRAMBAZAAR_NOTIFICATIONS_SEND_TIMEOUT" default:"10s"`
	FallbackTo  string        `envconfig:"GRAMBAZAAR_NOTIFICATIONS_FALLBACK_EMAIL" default:"no-reply@grambazaar.in"`
}

// UsesRedis reports whether notifications are handed to the redis queue
// instead of the in-process dispatcher.
func (n NotificationsConfig) UsesRedis() bool {
	return strings.EqualFold(n.Mode, NotificationModeRedis)
}

func (n NotificationsConfig) validate() error {
	switch strings.ToLower(n.Mode) {
	case NotificationModeInline, NotificationModeRedis:
		return nil
	default:
		return fmt.Errorf("%s must be %q or %q", EnvNotificationsMode, NotificationModeInline, NotificationModeRedis)
	}
}

type SMTPConfig struct {
	Host     string `envconfig:"GRAMBAZAAR_SMTP_HOST"`
	Port     int    `envconfig:"GRAMBAZAAR_SMTP_PORT" default:"587"`
	User     string `envconfig:"GRAMBAZAAR_SMTP_USER"`
	Password string `envconfig:"GRAMBAZAAR_SMTP_PASS"`
	From     string `envconfig:"GRAMBAZAAR_SMTP_FROM" default:"orders@grambazaar.in"`
}

// Enabled reports whether outbound email is configured.
func (s SMTPConfig) Enabled() bool {
	return strings.TrimSpace(s.Host) != ""
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range dbPartEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
