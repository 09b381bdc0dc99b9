// Package recovery turns handler panics into 500 responses.
package recovery

import (
	"net/http"
	"runtime/debug"

	"github.com/mistertoy/mistertoy-server/pkg/observability/logger"
	"github.com/mistertoy/mistertoy-server/pkg/server/router"
)

// Recovery creates middleware that recovers from panics, logs them with the
// stack trace, and answers 500 if nothing was written yet.
func Recovery(log logger.Logger) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			defer func() {
				if r := recover(); r != nil {
					log.WithContext(c.Request().Context()).Error("panic recovered",
						"panic", r,
						"stack", string(debug.Stack()),
					)

					if !c.Response().Written() {
						_ = c.JSON(http.StatusInternalServerError, map[string]interface{}{
							"error":   "internal",
							"message": "internal server error",
						})
					}
				}
			}()

			return next(c)
		}
	}
}
