// Package logging provides request logging middleware.
package logging

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/mistertoy/mistertoy-server/pkg/apperr"
	"github.com/mistertoy/mistertoy-server/pkg/observability/logger"
	"github.com/mistertoy/mistertoy-server/pkg/server/router"
)

// Config configures request logging.
type Config struct {
	// ExcludedPathPrefixes lists path prefixes that are not logged, such as
	// health and metrics endpoints.
	ExcludedPathPrefixes []string
}

// Logging creates middleware that logs one line per completed request with
// method, path, status, and duration. The request id is attached through the
// context-aware logger.
func Logging(log logger.Logger) router.MiddlewareFunc {
	return WithConfig(log, Config{})
}

// WithConfig creates logging middleware with explicit configuration.
func WithConfig(log logger.Logger, cfg Config) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			path := c.Request().URL.Path
			for _, prefix := range cfg.ExcludedPathPrefixes {
				if prefix != "" && strings.HasPrefix(path, prefix) {
					return next(c)
				}
			}

			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			fields := []interface{}{
				"method", c.Request().Method,
				"path", path,
				"status", responseStatus(c, err),
				"duration_ms", duration.Milliseconds(),
			}
			if err != nil {
				fields = append(fields, "error", err.Error())
			}
			log.WithContext(c.Request().Context()).Info("request completed", fields...)

			return err
		}
	}
}

// responseStatus resolves the effective status. An unhandled error is about
// to be translated by the adapter, so the writer's status is not final yet.
func responseStatus(c router.Context, err error) int {
	if c.Response().Written() || err == nil {
		return c.Response().Status()
	}
	var appErr *apperr.AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}
