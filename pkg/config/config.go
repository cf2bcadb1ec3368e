package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "bargainly"

	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names shared with tests and deploy tooling.
const (
	EnvAppEnv       = "BARGAINLY_APP_ENV"
	EnvPort         = "BARGAINLY_APP_PORT"
	EnvDBDSN        = "BARGAINLY_DB_DSN"
	EnvRedisURL     = "BARGAINLY_REDIS_URL"
	EnvJWTSecret    = "BARGAINLY_JWT_SECRET"
	EnvJWTIssuer    = "BARGAINLY_JWT_ISSUER"
	EnvJWTExpMins   = "BARGAINLY_JWT_EXPIRATION_MINUTES"
	EnvRefreshTTL   = "BARGAINLY_REFRESH_TOKEN_TTL_MINUTES"
	EnvGCPProjectID = "BARGAINLY_GCP_PROJECT_ID"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Shopify      ShopifyConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BARGAINLY_APP_ENV" required:"true"`
	Port         string `envconfig:"BARGAINLY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BARGAINLY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BARGAINLY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BARGAINLY_DB_DSN" required:"true"`
	Driver string `envconfig:"BARGAINLY_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"BARGAINLY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BARGAINLY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BARGAINLY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BARGAINLY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BARGAINLY_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BARGAINLY_REDIS_ADDR"`
	Password     string        `envconfig:"BARGAINLY_REDIS_PASSWORD"`
	DB           int           `envconfig:"BARGAINLY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BARGAINLY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BARGAINLY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BARGAINLY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BARGAINLY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BARGAINLY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"BARGAINLY_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"BARGAINLY_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"BARGAINLY_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"BARGAINLY_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type ShopifyConfig struct {
	// BaseURL overrides the per-shop myshopify.com host; used by tests and
	// local mocks, empty in production.
	BaseURL           string        `envconfig:"BARGAINLY_SHOPIFY_BASE_URL"`
	DefaultAPIVersion string        `envconfig:"BARGAINLY_SHOPIFY_DEFAULT_API_VERSION" default:"2024-01"`
	FetchTimeout      time.Duration `envconfig:"BARGAINLY_SHOPIFY_FETCH_TIMEOUT" default:"15s"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"BARGAINLY_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"BARGAINLY_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"BARGAINLY_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	Enabled     bool   `envconfig:"BARGAINLY_PUBSUB_ENABLED" default:"false"`
	PolicyTopic string `envconfig:"BARGAINLY_PUBSUB_POLICY_TOPIC" default:"bg-policy-events"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BARGAINLY_AUTO_MIGRATE" default:"false"`
}
