// Package metrics records Prometheus metrics for each HTTP request.
package metrics

import (
	"time"

	"github.com/mistertoy/mistertoy-server/pkg/observability/metrics"
	"github.com/mistertoy/mistertoy-server/pkg/server/router"
)

// Metrics creates middleware that feeds the request duration histogram, the
// request counter, and the in-flight gauge.
func Metrics(registry *metrics.Registry) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			registry.IncInFlight()
			defer registry.DecInFlight()

			start := time.Now()
			err := next(c)

			registry.RecordRequest(
				c.Request().Method,
				c.Request().URL.Path,
				c.Response().Status(),
				time.Since(start),
			)
			return err
		}
	}
}
