// Package cli defines the mistertoy-server command tree.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mistertoy/mistertoy-server/pkg/auth"
	"github.com/mistertoy/mistertoy-server/pkg/config"
	"github.com/mistertoy/mistertoy-server/pkg/controller"
	"github.com/mistertoy/mistertoy-server/pkg/health"
	"github.com/mistertoy/mistertoy-server/pkg/observability/logger"
	"github.com/mistertoy/mistertoy-server/pkg/observability/metrics"
	"github.com/mistertoy/mistertoy-server/pkg/realtime"
	"github.com/mistertoy/mistertoy-server/pkg/review"
	"github.com/mistertoy/mistertoy-server/pkg/server"
	"github.com/mistertoy/mistertoy-server/pkg/server/router/factory"
	mongostore "github.com/mistertoy/mistertoy-server/pkg/store/mongodb"
	"github.com/mistertoy/mistertoy-server/pkg/toy"
	"github.com/mistertoy/mistertoy-server/pkg/user"
	"github.com/mistertoy/mistertoy-server/pkg/version"
)

const (
	serviceName = "mistertoy-server"
	envPrefix   = "MISTERTOY"

	// devTokenSecret keeps local development working without configuration.
	devTokenSecret = "Secret-Puk-1234"
)

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           serviceName,
		Short:         "Toy shop catalog API server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "path to a config file")

	root.AddCommand(newServeCommand(&configFile))
	root.AddCommand(newVersionCommand())

	return root
}

func newServeCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewViperLoader(*configFile, envPrefix).Load()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runServe(ctx, cfg)
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build version metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := json.MarshalIndent(version.Current(serviceName), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	log, err := newLogger(cfg.Observability)
	if err != nil {
		return fmt.Errorf("cannot build logger: %w", err)
	}
	defer log.Sync()

	log.Info("starting", "service", version.Current(cfg.Service.Name).String(), "environment", cfg.Service.Environment)

	store, err := mongostore.NewAdapter(mongostore.Config{
		URL:              cfg.Mongo.URL,
		Database:         cfg.Mongo.Database,
		ConnectTimeout:   cfg.Mongo.ConnectTimeout,
		OperationTimeout: cfg.Mongo.OperationTimeout,
	}, log)
	if err != nil {
		return fmt.Errorf("cannot build mongodb adapter: %w", err)
	}
	defer store.Close()

	healthRegistry := health.NewRegistry()
	healthRegistry.Register(health.NewAdapterChecker("mongodb", store, cfg.Mongo.OperationTimeout))

	bus, err := newBus(cfg)
	if err != nil {
		return fmt.Errorf("cannot build event bus: %w", err)
	}
	if bus != nil {
		defer bus.Close()
	}
	if redisBus, ok := bus.(*realtime.RedisBus); ok {
		healthRegistry.Register(health.NewAdapterChecker("redis", redisBus, 0))
	}

	secret := cfg.Auth.TokenSecret
	if secret == "" {
		// Config validation rejects this in production.
		secret = devTokenSecret
		log.Warn("auth.token_secret not set, using the development secret")
	}
	tokens, err := auth.NewTokenManager(secret, cfg.Auth.TokenTTL, cfg.Auth.Issuer)
	if err != nil {
		return fmt.Errorf("cannot build token manager: %w", err)
	}

	userSvc := user.NewService(store, log)
	authSvc := auth.NewService(userSvc, tokens, log)
	toySvc := toy.NewService(store, log, bus, cfg.Realtime.Channel)
	reviewSvc := review.NewService(store, log)

	var metricsRegistry *metrics.Registry
	if cfg.Observability.MetricsEnabled {
		metricsRegistry = metrics.NewRegistry()
	}

	r, err := factory.NewRouter(cfg.RouterType)
	if err != nil {
		return err
	}

	deps := controller.Deps{
		Log:      log,
		Tokens:   tokens,
		Auth:     authSvc,
		Toys:     toySvc,
		Reviews:  reviewSvc,
		Users:    userSvc,
		TokenTTL: cfg.Auth.TokenTTL,
		Events:   bus,
		SSE:      realtime.DefaultSSEConfig(cfg.Realtime.Channel),
		Health:   healthRegistry,
		Metrics:  metricsRegistry,
	}
	if cfg.RateLimit.Enabled {
		deps.RateRPS = cfg.RateLimit.RPS
		deps.RateBurst = cfg.RateLimit.Burst
	}
	controller.Register(r, deps)

	srv := server.NewServer(server.Config{
		Port:         cfg.HTTP.Port,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}, r, log)

	return srv.Start(ctx)
}

func newLogger(cfg config.ObservabilityConfig) (*logger.ZapLogger, error) {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	format, err := logger.ParseFormat(cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	return logger.NewZapLogger(logger.Config{Level: level, Format: format})
}

func newBus(cfg *config.Config) (realtime.Bus, error) {
	if !cfg.Realtime.Enabled {
		return nil, nil
	}
	switch cfg.Realtime.Bus {
	case config.RealtimeBusRedis:
		return realtime.NewRedisBus(realtime.RedisBusConfig{
			URL:              cfg.Realtime.RedisURL,
			Prefix:           cfg.Service.Name,
			OperationTimeout: cfg.Mongo.OperationTimeout,
		})
	default:
		return realtime.NewInMemoryBus(), nil
	}
}
