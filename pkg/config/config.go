package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Shopify ShopifyConfig
	Webhook WebhookConfig
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
	Env          string `envconfig:"B2B_APP_ENV" required:"true"`
	Port         string `envconfig:"B2B_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"B2B_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"B2B_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"B2B_DB_DSN"`
	Driver string `envconfig:"B2B_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"B2B_DB_HOST"`
	Port     int    `envconfig:"B2B_DB_PORT" default:"5432"`
	User     string `envconfig:"B2B_DB_USER"`
	Password string `envconfig:"B2B_DB_PASSWORD"`
	Name     string `envconfig:"B2B_DB_NAME"`
	SSLMode  string `envconfig:"B2B_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"B2B_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"B2B_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"B2B_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"B2B_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"B2B_REDIS_URL"`
	Address      string        `envconfig:"B2B_REDIS_ADDR"`
	Password     string        `envconfig:"B2B_REDIS_PASSWORD"`
	DB           int           `envconfig:"B2B_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"B2B_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"B2B_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"B2B_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"B2B_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"B2B_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"B2B_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"B2B_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"B2B_JWT_EXPIRATION_MINUTES" default:"60"`
}

// Expiration returns the configured access token lifetime.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type ShopifyConfig struct {
	ShopDomain    string        `envconfig:"B2B_SHOPIFY_SHOP_DOMAIN" required:"true"`
	AccessToken   string        `envconfig:"B2B_SHOPIFY_ACCESS_TOKEN" required:"true"`
	APIVersion    string        `envconfig:"B2B_SHOPIFY_API_VERSION" default:"2024-10"`
	Timeout       time.Duration `envconfig:"B2B_SHOPIFY_TIMEOUT" default:"15s"`
	RetryCount    int           `envconfig:"B2B_SHOPIFY_RETRY_COUNT" default:"2"`
	WebhookSecret string        `envconfig:"B2B_SHOPIFY_WEBHOOK_SECRET" required:"true"`
}

// AdminGraphQLURL returns the Admin API endpoint for the configured shop.
func (s ShopifyConfig) AdminGraphQLURL() string {
	domain := strings.TrimSuffix(strings.TrimSpace(s.ShopDomain), "/")
	return fmt.Sprintf("https://%s/admin/api/%s/graphql.json", domain, s.APIVersion)
}

type WebhookConfig struct {
	EventTTL time.Duration `envconfig:"B2B_WEBHOOK_EVENT_TTL" default:"168h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	required := map[string]string{
		"B2B_DB_HOST": db.Host,
		"B2B_DB_USER": db.User,
		"B2B_DB_NAME": db.Name,
	}
	for _, key := range []string{"B2B_DB_HOST", "B2B_DB_USER", "B2B_DB_NAME"} {
		if required[key] == "" {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either B2B_DB_DSN or %s are required", strings.Join(missing, ", "))
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
