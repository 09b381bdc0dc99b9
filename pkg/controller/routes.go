package controller

import (
	"net/http"
	"time"

	"github.com/mistertoy/mistertoy-server/pkg/auth"
	"github.com/mistertoy/mistertoy-server/pkg/health"
	"github.com/mistertoy/mistertoy-server/pkg/middleware/authn"
	"github.com/mistertoy/mistertoy-server/pkg/middleware/logging"
	metricsmw "github.com/mistertoy/mistertoy-server/pkg/middleware/metrics"
	"github.com/mistertoy/mistertoy-server/pkg/middleware/ratelimit"
	"github.com/mistertoy/mistertoy-server/pkg/middleware/recovery"
	"github.com/mistertoy/mistertoy-server/pkg/middleware/requestid"
	"github.com/mistertoy/mistertoy-server/pkg/observability/logger"
	"github.com/mistertoy/mistertoy-server/pkg/observability/metrics"
	"github.com/mistertoy/mistertoy-server/pkg/realtime"
	"github.com/mistertoy/mistertoy-server/pkg/server/router"
)

// Deps bundles everything Register needs to mount the API surface.
type Deps struct {
	Log    logger.Logger
	Tokens *auth.TokenManager

	Auth    AuthService
	Toys    ToyService
	Reviews ReviewService
	Users   UserService

	// TokenTTL controls the login cookie lifetime. Zero means the
	// AuthController default.
	TokenTTL time.Duration

	Events    realtime.Bus
	SSE       realtime.SSEConfig
	Health    *health.Registry
	Metrics   *metrics.Registry
	RateRPS   int
	RateBurst int
}

// Register mounts the middleware chain and every API route on r.
func Register(r router.Router, deps Deps) {
	if deps.Log == nil {
		deps.Log = logger.Noop{}
	}

	r.Use(requestid.RequestID())
	r.Use(recovery.Recovery(deps.Log))
	r.Use(logging.WithConfig(deps.Log, logging.Config{
		ExcludedPathPrefixes: []string{"/health", "/metrics"},
	}))
	if deps.Metrics != nil {
		r.Use(metricsmw.Metrics(deps.Metrics))
	}
	if deps.RateRPS > 0 {
		limiter := ratelimit.NewTokenBucketLimiter(deps.RateRPS, deps.RateBurst)
		r.Use(ratelimit.RateLimit(limiter, ratelimit.Config{
			RequestsPerSecond: deps.RateRPS,
			Burst:             deps.RateBurst,
		}))
	}
	r.Use(authn.Authenticate(deps.Tokens))

	r.GET("/health/live", health.LivenessHandler())
	if deps.Health != nil {
		r.GET("/health/ready", health.ReadinessHandler(deps.Health))
	}
	if deps.Metrics != nil {
		r.GET("/metrics", wrapHTTP(deps.Metrics.Handler()))
	}

	api := r.Group("/api")

	authCtrl := NewAuthController(deps.Auth, deps.TokenTTL)
	api.POST("/auth/signup", authCtrl.Signup)
	api.POST("/auth/login", authCtrl.Login)
	api.POST("/auth/logout", authCtrl.Logout)

	toys := NewToyController(deps.Toys)
	api.GET("/toy", toys.Query)
	api.GET("/toy/:toyId", toys.Get)
	api.POST("/toy", toys.Add, authn.RequireAuth(), authn.RequireAdmin())
	api.PUT("/toy/:toyId", toys.Update, authn.RequireAuth(), authn.RequireAdmin())
	api.DELETE("/toy/:toyId", toys.Remove, authn.RequireAuth(), authn.RequireAdmin())
	api.POST("/toy/:toyId/msg", toys.AddMsg, authn.RequireAuth())
	api.DELETE("/toy/:toyId/msg/:msgId", toys.RemoveMsg, authn.RequireAuth())

	reviews := NewReviewController(deps.Reviews)
	api.GET("/review", reviews.Query)
	api.POST("/review", reviews.Add, authn.RequireAuth())
	api.DELETE("/review/:id", reviews.Remove, authn.RequireAuth())

	users := NewUserController(deps.Users)
	api.GET("/user", users.Query, authn.RequireAuth())
	api.GET("/user/:id", users.Get, authn.RequireAuth())
	api.DELETE("/user/:id", users.Remove, authn.RequireAuth(), authn.RequireAdmin())

	if deps.Events != nil {
		api.GET("/events", wrapHTTP(realtime.SSEHandler(deps.Events, deps.SSE, deps.Log)))
	}
}

func wrapHTTP(h http.Handler) router.HandlerFunc {
	return func(c router.Context) error {
		h.ServeHTTP(c.Response(), c.Request())
		return nil
	}
}
