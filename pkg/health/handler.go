package health

import (
	"net/http"

	"github.com/mistertoy/mistertoy-server/pkg/server/router"
)

// LivenessHandler answers 200 as long as the process serves requests.
func LivenessHandler() router.HandlerFunc {
	return func(c router.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": string(StatusHealthy)})
	}
}

// ReadinessHandler runs all registered checks and answers 503 when any
// component is unhealthy.
func ReadinessHandler(registry *Registry) router.HandlerFunc {
	return func(c router.Context) error {
		result := registry.Check(c.Request().Context())
		code := http.StatusOK
		if result.Status == StatusUnhealthy {
			code = http.StatusServiceUnavailable
		}
		return c.JSON(code, result)
	}
}
