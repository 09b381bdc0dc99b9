package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mistertoy/mistertoy-server/pkg/observability/metrics"
	"github.com/mistertoy/mistertoy-server/pkg/server/router"
	ginadapter "github.com/mistertoy/mistertoy-server/pkg/server/router/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_CountsRequestsByStatus(t *testing.T) {
	registry := metrics.NewRegistry()
	r := ginadapter.NewRouter()
	r.Use(Metrics(registry))
	r.GET("/ok", func(c router.Context) error { return c.String(http.StatusOK, "ok") })
	r.GET("/gone", func(c router.Context) error { return c.String(http.StatusNotFound, "no") })

	for _, target := range []string{"/ok", "/ok", "/gone"} {
		req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	families, err := registry.Gatherer().Gather()
	require.NoError(t, err)

	counts := map[string]float64{}
	for _, f := range families {
		if f.GetName() != "http_requests_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			var path, status string
			for _, l := range m.GetLabel() {
				switch l.GetName() {
				case "path":
					path = l.GetValue()
				case "status":
					status = l.GetValue()
				}
			}
			counts[path+" "+status] = m.GetCounter().GetValue()
		}
	}

	assert.Equal(t, float64(2), counts["/ok 200"])
	assert.Equal(t, float64(1), counts["/gone 404"])
}
