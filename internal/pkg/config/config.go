package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timeouts, limits, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server     ServerConfig
	DB         DBConfig
	Redis      RedisConfig
	Gateway    GatewayConfig
	Settlement SettlementConfig
	CORS       CORSConfig
	Log        LogConfig
	JWT        JWTConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

type RedisConfig struct {
	Addr     string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string        `envconfig:"REDIS_PASSWORD" default:""`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	// TTL for cached license validation results. Kept short so refunds
	// propagate quickly even if an invalidation is missed.
	LicenseCacheTTL time.Duration `envconfig:"REDIS_LICENSE_CACHE_TTL" default:"2m"`
}

type GatewayConfig struct {
	// Provider selects the PaymentGateway implementation: "sandbox" or "rest".
	Provider      string        `envconfig:"GATEWAY_PROVIDER" default:"sandbox"`
	BaseURL       string        `envconfig:"GATEWAY_BASE_URL" default:""`
	APIKey        string        `envconfig:"GATEWAY_API_KEY" default:""`
	WebhookSecret string        `envconfig:"GATEWAY_WEBHOOK_SECRET" default:""`
	Timeout       time.Duration `envconfig:"GATEWAY_TIMEOUT" default:"10s"`
}

type SettlementConfig struct {
	FeePercent         int64  `envconfig:"SETTLEMENT_FEE_PERCENT" default:"5"`
	ActivationLimit    int32  `envconfig:"LICENSE_ACTIVATION_LIMIT" default:"5"`
	MinimumPayoutCents int64  `envconfig:"MINIMUM_PAYOUT_CENTS" default:"1000"`
	Currency           string `envconfig:"SETTLEMENT_CURRENCY" default:"USD"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
}

type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
		},
		Redis: RedisConfig{
			Addr:            "localhost:16379",
			LicenseCacheTTL: 2 * time.Minute,
		},
		Gateway: GatewayConfig{
			Provider:      "sandbox",
			WebhookSecret: "test-webhook-secret",
			Timeout:       2 * time.Second,
		},
		Settlement: SettlementConfig{
			FeePercent:         5,
			ActivationLimit:    5,
			MinimumPayoutCents: 1000,
			Currency:           "USD",
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: "24h",
		},
	}
}
