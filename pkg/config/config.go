package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix scopes every configuration variable read by the gateway.
	EnvPrefix = "nexus"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App       AppConfig
	JWT       JWTConfig
	Redis     RedisConfig
	Services  ServicesConfig
	RateLimit AuthRateLimitConfig
	Telemetry TelemetryConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Services.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"NEXUS_APP_ENV" required:"true"`
	Port         string `envconfig:"NEXUS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"NEXUS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"NEXUS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// JWTConfig holds the shared-secret parameters used to verify bearer tokens
// minted by the user service.
type JWTConfig struct {
	Secret string `envconfig:"NEXUS_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"NEXUS_JWT_ISSUER"`
}

type RedisConfig struct {
	URL          string        `envconfig:"NEXUS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"NEXUS_REDIS_ADDR"`
	Password     string        `envconfig:"NEXUS_REDIS_PASSWORD"`
	DB           int           `envconfig:"NEXUS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"NEXUS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"NEXUS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"NEXUS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"NEXUS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"NEXUS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// ServicesConfig points the gateway at the collaborator services. Every call
// to them carries RequestTimeout as its context deadline so a stalled
// collaborator cannot pin a request forever.
type ServicesConfig struct {
	InventoryURL string `envconfig:"NEXUS_INVENTORY_SERVICE_URL"`
	CartURL      string `envconfig:"NEXUS_CART_SERVICE_URL"`
	OrderURL     string `envconfig:"NEXUS_ORDER_SERVICE_URL"`
	ShipmentURL  string `envconfig:"NEXUS_SHIPMENT_SERVICE_URL"`
	UserURL      string `envconfig:"NEXUS_USER_SERVICE_URL"`

	RequestTimeout time.Duration `envconfig:"NEXUS_SERVICE_REQUEST_TIMEOUT" default:"10s"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"NEXUS_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"NEXUS_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"NEXUS_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"NEXUS_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"NEXUS_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"NEXUS_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type TelemetryConfig struct {
	OTLPEndpoint string `envconfig:"NEXUS_OTLP_ENDPOINT"`
	Enabled      bool   `envconfig:"NEXUS_TRACING_ENABLED" default:"false"`
}

func (s *ServicesConfig) validate() error {
	missing := []string{}
	required := []struct {
		env   string
		value string
	}{
		{"NEXUS_INVENTORY_SERVICE_URL", s.InventoryURL},
		{"NEXUS_CART_SERVICE_URL", s.CartURL},
		{"NEXUS_ORDER_SERVICE_URL", s.OrderURL},
		{"NEXUS_SHIPMENT_SERVICE_URL", s.ShipmentURL},
		{"NEXUS_USER_SERVICE_URL", s.UserURL},
	}
	for _, entry := range required {
		if strings.TrimSpace(entry.value) == "" {
			missing = append(missing, entry.env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing service urls: %s", strings.Join(missing, ", "))
	}
	if s.RequestTimeout <= 0 {
		return fmt.Errorf("service request timeout must be positive")
	}
	return nil
}
