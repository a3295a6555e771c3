package config

import (
	"fmt"
	"net/url"

	pkgconfig "github.com/MxSGameJPS/minhaloja-valorfinal/pkg/config"
)

// Config holds all configuration for the listing service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// Marketplace API
	MarketplaceBaseURL string `env:"MARKETPLACE_BASE_URL" envDefault:"https://api.mercadolibre.com"`
	MarketplaceAuthURL string `env:"MARKETPLACE_AUTH_URL" envDefault:"https://api.mercadolibre.com"`
	MarketplaceSiteID  string `env:"MARKETPLACE_SITE_ID" envDefault:"MLB"`
	MarketplaceSeller  string `env:"MARKETPLACE_SELLER_ID"`

	// Marketplace OAuth application
	OAuthClientID     string `env:"MARKETPLACE_CLIENT_ID"`
	OAuthClientSecret string `env:"MARKETPLACE_CLIENT_SECRET"`
	OAuthRedirectURI  string `env:"MARKETPLACE_REDIRECT_URI"`

	// Outbound HTTP
	HTTPClientTimeoutSecs int `env:"HTTP_CLIENT_TIMEOUT_SECONDS" envDefault:"30"`
	HTTPClientMaxRetries  int `env:"HTTP_CLIENT_MAX_RETRIES" envDefault:"3"`

	// Per-job timeout for listing-creation calls (seconds). Each create gets
	// its own context.WithTimeout so a hung call cannot stall the batch.
	PublishJobTimeoutSecs int `env:"PUBLISH_JOB_TIMEOUT_SECONDS" envDefault:"15"`

	// Circuit breaker settings for marketplace calls
	CBMaxRequests  uint32  `env:"CB_MAX_REQUESTS" envDefault:"1"`
	CBInterval     int     `env:"CB_INTERVAL_SECONDS" envDefault:"60"`
	CBTimeout      int     `env:"CB_TIMEOUT_SECONDS" envDefault:"30"`
	CBFailureRatio float64 `env:"CB_FAILURE_RATIO" envDefault:"0.5"`
	CBMinRequests  uint32  `env:"CB_MIN_REQUESTS" envDefault:"5"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"minhaloja"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"minhaloja_secret"`
	PostgresDB   string `env:"POSTGRES_DB_NAME" envDefault:"listings_db"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Database pool
	DBMaxConns            int32 `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns            int32 `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetimeMins int   `env:"DB_MAX_CONN_LIFETIME_MINUTES" envDefault:"60"`
	DBMaxConnIdleTimeMins int   `env:"DB_MAX_CONN_IDLE_TIME_MINUTES" envDefault:"30"`

	// Redis (token store)
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load listing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	for name, rawURL := range map[string]string{
		"MARKETPLACE_BASE_URL": c.MarketplaceBaseURL,
		"MARKETPLACE_AUTH_URL": c.MarketplaceAuthURL,
	} {
		if rawURL == "" {
			return fmt.Errorf("%s is required", name)
		}
		if _, err := url.ParseRequestURI(rawURL); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, rawURL, err)
		}
	}
	if c.MarketplaceSiteID == "" {
		return fmt.Errorf("MARKETPLACE_SITE_ID is required")
	}
	// Seller-scoped search paths interpolate this; an empty value would
	// silently query /users//items/search.
	if c.MarketplaceSeller == "" {
		return fmt.Errorf("MARKETPLACE_SELLER_ID is required")
	}
	if c.PostgresHost == "" {
		return fmt.Errorf("POSTGRES_HOST is required")
	}
	if c.PostgresUser == "" {
		return fmt.Errorf("POSTGRES_USER is required")
	}
	if len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required")
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	return nil
}

// PostgresDSN returns the PostgreSQL connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.PostgresUser, c.PostgresPass, c.PostgresHost, c.PostgresPort, c.PostgresDB, c.PostgresSSL,
	)
}
