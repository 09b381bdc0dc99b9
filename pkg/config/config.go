// Package config defines the service configuration tree and its loader.
package config

import "time"

// Router type constants.
const (
	RouterTypeGin     = "gin"
	RouterTypeGorilla = "gorilla"
)

// Realtime bus type constants.
const (
	RealtimeBusMemory = "memory"
	RealtimeBusRedis  = "redis"
)

// Config is the root configuration structure for the service.
type Config struct {
	RouterType    string `mapstructure:"router_type"`
	Service       ServiceConfig
	HTTP          HTTPConfig
	Mongo         MongoConfig
	Auth          AuthConfig
	Realtime      RealtimeConfig
	RateLimit     RateLimitConfig     `mapstructure:"rate_limit"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// ServiceConfig configures service identity metadata.
type ServiceConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// HTTPConfig configures the public API server.
type HTTPConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// MongoConfig configures the MongoDB persistence gateway.
type MongoConfig struct {
	URL              string        `mapstructure:"url"`
	Database         string        `mapstructure:"database"`
	ConnectTimeout   time.Duration `mapstructure:"connect_timeout"`
	OperationTimeout time.Duration `mapstructure:"operation_timeout"`
}

// AuthConfig configures login-token issuance and validation.
type AuthConfig struct {
	TokenSecret string        `mapstructure:"token_secret"`
	TokenTTL    time.Duration `mapstructure:"token_ttl"`
	Issuer      string        `mapstructure:"issuer"`
}

// RealtimeConfig configures the save/remove event fan-out.
type RealtimeConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Bus      string `mapstructure:"bus"`
	RedisURL string `mapstructure:"redis_url"`
	Channel  string `mapstructure:"channel"`
}

// RateLimitConfig configures the per-client request rate limiter.
type RateLimitConfig struct {
	Enabled bool `mapstructure:"enabled"`
	RPS     int  `mapstructure:"rps"`
	Burst   int  `mapstructure:"burst"`
}

// ObservabilityConfig configures logging and metrics.
type ObservabilityConfig struct {
	LogLevel       string `mapstructure:"log_level"`
	LogFormat      string `mapstructure:"log_format"`
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
}

// DefaultConfig returns the configuration defaults applied before file and
// environment overrides.
func DefaultConfig() Config {
	return Config{
		RouterType: RouterTypeGin,
		Service: ServiceConfig{
			Name:        "mistertoy-server",
			Environment: "development",
		},
		HTTP: HTTPConfig{
			Port:         3030,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Mongo: MongoConfig{
			URL:              "mongodb://localhost:27017",
			Database:         "toy_db",
			ConnectTimeout:   5 * time.Second,
			OperationTimeout: 5 * time.Second,
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
			Issuer:   "mistertoy-server",
		},
		Realtime: RealtimeConfig{
			Enabled: true,
			Bus:     RealtimeBusMemory,
			Channel: "toys",
		},
		RateLimit: RateLimitConfig{
			Enabled: false,
			RPS:     20,
			Burst:   40,
		},
		Observability: ObservabilityConfig{
			LogLevel:       "info",
			LogFormat:      "json",
			MetricsEnabled: true,
		},
	}
}
