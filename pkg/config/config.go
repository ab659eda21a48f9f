package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the namespace for every environment variable the app reads.
const EnvPrefix = "FASTCHANGE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App     AppConfig
	Shopify ShopifyConfig
	Redis   RedisConfig
	Listing ListingConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Shopify.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FASTCHANGE_APP_ENV" required:"true"`
	Port         string `envconfig:"FASTCHANGE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"FASTCHANGE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FASTCHANGE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// ShopifyConfig holds the Admin API credentials for the merchant shop.
type ShopifyConfig struct {
	ShopDomain  string        `envconfig:"FASTCHANGE_SHOPIFY_SHOP_DOMAIN" required:"true"`
	AccessToken string        `envconfig:"FASTCHANGE_SHOPIFY_ACCESS_TOKEN" required:"true"`
	APIVersion  string        `envconfig:"FASTCHANGE_SHOPIFY_API_VERSION" default:"2024-10"`
	Timeout     time.Duration `envconfig:"FASTCHANGE_SHOPIFY_TIMEOUT" default:"30s"`
}

// normalize strips scheme and trailing slashes so the domain can be used in URLs.
func (s *ShopifyConfig) normalize() error {
	domain := strings.TrimSpace(s.ShopDomain)
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	domain = strings.TrimSuffix(domain, "/")
	if domain == "" {
		return fmt.Errorf("shopify shop domain is required")
	}
	s.ShopDomain = domain

	if strings.TrimSpace(s.AccessToken) == "" {
		return fmt.Errorf("shopify access token is required")
	}
	if strings.TrimSpace(s.APIVersion) == "" {
		return fmt.Errorf("shopify api version is required")
	}
	return nil
}

// RedisConfig backs the save-endpoint idempotency guard. Optional: with no
// URL or address configured the guard is disabled.
type RedisConfig struct {
	URL          string        `envconfig:"FASTCHANGE_REDIS_URL"`
	Address      string        `envconfig:"FASTCHANGE_REDIS_ADDR"`
	Password     string        `envconfig:"FASTCHANGE_REDIS_PASSWORD"`
	DB           int           `envconfig:"FASTCHANGE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FASTCHANGE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FASTCHANGE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FASTCHANGE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FASTCHANGE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FASTCHANGE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis connection was configured at all.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

// ListingConfig bounds the product listing page size.
type ListingConfig struct {
	DefaultPageSize int `envconfig:"FASTCHANGE_LISTING_DEFAULT_PAGE_SIZE" default:"10"`
	MaxPageSize     int `envconfig:"FASTCHANGE_LISTING_MAX_PAGE_SIZE" default:"50"`
}
