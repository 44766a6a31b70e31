package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
	Eventing     EventingConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
	Cron         CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"DISTRIBO_APP_ENV" required:"true"`
	Port         string `envconfig:"DISTRIBO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"DISTRIBO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DISTRIBO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"DISTRIBO_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"DISTRIBO_DB_DSN"`
	Driver string `envconfig:"DISTRIBO_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"DISTRIBO_DB_HOST"`
	LegacyPort     int    `envconfig:"DISTRIBO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"DISTRIBO_DB_USER"`
	LegacyPassword string `envconfig:"DISTRIBO_DB_PASSWORD"`
	LegacyName     string `envconfig:"DISTRIBO_DB_NAME"`
	LegacySSLMode  string `envconfig:"DISTRIBO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DISTRIBO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DISTRIBO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DISTRIBO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DISTRIBO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DISTRIBO_REDIS_URL" required:"true"`
	Address      string        `envconfig:"DISTRIBO_REDIS_ADDR"`
	Password     string        `envconfig:"DISTRIBO_REDIS_PASSWORD"`
	DB           int           `envconfig:"DISTRIBO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DISTRIBO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DISTRIBO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DISTRIBO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DISTRIBO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DISTRIBO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"DISTRIBO_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"DISTRIBO_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"DISTRIBO_JWT_EXPIRATION_MINUTES" default:"60"`
}

type RateLimitConfig struct {
	Window   time.Duration `envconfig:"DISTRIBO_RATE_LIMIT_WINDOW" default:"1m"`
	Requests int64         `envconfig:"DISTRIBO_RATE_LIMIT_REQUESTS" default:"120"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"DISTRIBO_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"DISTRIBO_AUTO_MIGRATE" default:"false"`
}

type EventingConfig struct {
	OutboxIdempotencyTTL time.Duration `envconfig:"DISTRIBO_EVENTING_IDEMPOTENCY_TTL" default:"720h"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"DISTRIBO_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"DISTRIBO_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"DISTRIBO_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	OrdersTopic              string `envconfig:"DISTRIBO_PUBSUB_ORDERS_TOPIC" required:"true"`
	OrdersSubscription       string `envconfig:"DISTRIBO_PUBSUB_ORDERS_SUBSCRIPTION" required:"true"`
	NotificationTopic        string `envconfig:"DISTRIBO_PUBSUB_NOTIFICATION_TOPIC" default:"distribo-notification-events"`
	NotificationSubscription string `envconfig:"DISTRIBO_PUBSUB_NOTIFICATION_SUBSCRIPTION" required:"true"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"DISTRIBO_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"DISTRIBO_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"DISTRIBO_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type CronConfig struct {
	Interval             time.Duration `envconfig:"DISTRIBO_CRON_INTERVAL" default:"24h"`
	OutboxRetentionDays  int           `envconfig:"DISTRIBO_CRON_OUTBOX_RETENTION_DAYS" default:"30"`
	DebtResyncLookbackHr int           `envconfig:"DISTRIBO_CRON_DEBT_RESYNC_LOOKBACK_HOURS" default:"48"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
