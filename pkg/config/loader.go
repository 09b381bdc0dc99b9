package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Loader defines the interface for loading configuration.
type Loader interface {
	Load() (*Config, error)
	Validate(*Config) error
}

// ViperLoader implements Loader using Viper. Precedence: ENV > file > defaults.
type ViperLoader struct {
	configFile string
	envPrefix  string
}

// NewViperLoader creates a ViperLoader. configFile may be empty; envPrefix is
// the environment variable prefix (e.g. "MISTERTOY").
func NewViperLoader(configFile, envPrefix string) *ViperLoader {
	return &ViperLoader{configFile: configFile, envPrefix: envPrefix}
}

// Load loads configuration with precedence: ENV > file > defaults.
func (l *ViperLoader) Load() (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	l.setDefaults(v, defaults)

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", l.configFile, err)
		}
	}

	v.SetEnvPrefix(l.envPrefix)
	l.bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := l.Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// bindEnvVars explicitly binds environment variables for nested structs.
func (l *ViperLoader) bindEnvVars(v *viper.Viper) {
	v.BindEnv("router_type", l.prefixedEnv("ROUTER_TYPE"))
	v.BindEnv("service.name", l.prefixedEnv("SERVICE_NAME"))
	v.BindEnv("service.environment", l.prefixedEnv("SERVICE_ENVIRONMENT"), l.prefixedEnv("ENVIRONMENT"))

	v.BindEnv("http.port", l.prefixedEnv("HTTP_PORT"))
	v.BindEnv("http.read_timeout", l.prefixedEnv("HTTP_READ_TIMEOUT"))
	v.BindEnv("http.write_timeout", l.prefixedEnv("HTTP_WRITE_TIMEOUT"))
	v.BindEnv("http.idle_timeout", l.prefixedEnv("HTTP_IDLE_TIMEOUT"))

	v.BindEnv("mongo.url", l.prefixedEnv("MONGO_URL"))
	v.BindEnv("mongo.database", l.prefixedEnv("MONGO_DATABASE"))
	v.BindEnv("mongo.connect_timeout", l.prefixedEnv("MONGO_CONNECT_TIMEOUT"))
	v.BindEnv("mongo.operation_timeout", l.prefixedEnv("MONGO_OPERATION_TIMEOUT"))

	v.BindEnv("auth.token_secret", l.prefixedEnv("AUTH_TOKEN_SECRET"))
	v.BindEnv("auth.token_ttl", l.prefixedEnv("AUTH_TOKEN_TTL"))
	v.BindEnv("auth.issuer", l.prefixedEnv("AUTH_ISSUER"))

	v.BindEnv("realtime.enabled", l.prefixedEnv("REALTIME_ENABLED"))
	v.BindEnv("realtime.bus", l.prefixedEnv("REALTIME_BUS"))
	v.BindEnv("realtime.redis_url", l.prefixedEnv("REALTIME_REDIS_URL"))
	v.BindEnv("realtime.channel", l.prefixedEnv("REALTIME_CHANNEL"))

	v.BindEnv("rate_limit.enabled", l.prefixedEnv("RATE_LIMIT_ENABLED"))
	v.BindEnv("rate_limit.rps", l.prefixedEnv("RATE_LIMIT_RPS"))
	v.BindEnv("rate_limit.burst", l.prefixedEnv("RATE_LIMIT_BURST"))

	v.BindEnv("observability.log_level", l.prefixedEnv("LOG_LEVEL"))
	v.BindEnv("observability.log_format", l.prefixedEnv("LOG_FORMAT"))
	v.BindEnv("observability.metrics_enabled", l.prefixedEnv("METRICS_ENABLED"))
}

func (l *ViperLoader) prefixedEnv(name string) string {
	if l.envPrefix == "" {
		return name
	}
	return l.envPrefix + "_" + name
}

// setDefaults registers default values on the viper instance.
func (l *ViperLoader) setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("router_type", cfg.RouterType)
	v.SetDefault("service.name", cfg.Service.Name)
	v.SetDefault("service.environment", cfg.Service.Environment)

	v.SetDefault("http.port", cfg.HTTP.Port)
	v.SetDefault("http.read_timeout", cfg.HTTP.ReadTimeout)
	v.SetDefault("http.write_timeout", cfg.HTTP.WriteTimeout)
	v.SetDefault("http.idle_timeout", cfg.HTTP.IdleTimeout)

	v.SetDefault("mongo.url", cfg.Mongo.URL)
	v.SetDefault("mongo.database", cfg.Mongo.Database)
	v.SetDefault("mongo.connect_timeout", cfg.Mongo.ConnectTimeout)
	v.SetDefault("mongo.operation_timeout", cfg.Mongo.OperationTimeout)

	v.SetDefault("auth.token_secret", cfg.Auth.TokenSecret)
	v.SetDefault("auth.token_ttl", cfg.Auth.TokenTTL)
	v.SetDefault("auth.issuer", cfg.Auth.Issuer)

	v.SetDefault("realtime.enabled", cfg.Realtime.Enabled)
	v.SetDefault("realtime.bus", cfg.Realtime.Bus)
	v.SetDefault("realtime.redis_url", cfg.Realtime.RedisURL)
	v.SetDefault("realtime.channel", cfg.Realtime.Channel)

	v.SetDefault("rate_limit.enabled", cfg.RateLimit.Enabled)
	v.SetDefault("rate_limit.rps", cfg.RateLimit.RPS)
	v.SetDefault("rate_limit.burst", cfg.RateLimit.Burst)

	v.SetDefault("observability.log_level", cfg.Observability.LogLevel)
	v.SetDefault("observability.log_format", cfg.Observability.LogFormat)
	v.SetDefault("observability.metrics_enabled", cfg.Observability.MetricsEnabled)
}

// Validate checks the configuration for invalid combinations.
func (l *ViperLoader) Validate(cfg *Config) error {
	switch strings.ToLower(strings.TrimSpace(cfg.RouterType)) {
	case RouterTypeGin, RouterTypeGorilla:
	default:
		return fmt.Errorf("unsupported router_type %q", cfg.RouterType)
	}

	if cfg.HTTP.Port <= 0 || cfg.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", cfg.HTTP.Port)
	}
	if cfg.Mongo.URL == "" {
		return fmt.Errorf("mongo.url is required")
	}
	if cfg.Mongo.Database == "" {
		return fmt.Errorf("mongo.database is required")
	}
	if cfg.Auth.TokenSecret == "" && cfg.Service.Environment == "production" {
		return fmt.Errorf("auth.token_secret is required in production")
	}
	if cfg.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}

	switch cfg.Realtime.Bus {
	case RealtimeBusMemory:
	case RealtimeBusRedis:
		if cfg.Realtime.RedisURL == "" {
			return fmt.Errorf("realtime.redis_url is required for the redis bus")
		}
	default:
		return fmt.Errorf("unsupported realtime.bus %q", cfg.Realtime.Bus)
	}

	if cfg.RateLimit.Enabled && cfg.RateLimit.RPS <= 0 {
		return fmt.Errorf("rate_limit.rps must be positive when rate limiting is enabled")
	}
	return nil
}
