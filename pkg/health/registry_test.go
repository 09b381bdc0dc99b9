package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	ginadapter "github.com/mistertoy/mistertoy-server/pkg/server/router/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkable struct {
	err error
}

func (c checkable) HealthCheck(context.Context) error { return c.err }

func TestRegistry_AllHealthy(t *testing.T) {
	r := NewRegistry()
	r.Register(NewAdapterChecker("mongodb", checkable{}, time.Second))
	r.Register(NewAdapterChecker("redis", checkable{}, time.Second))

	result := r.Check(context.Background())
	assert.Equal(t, StatusHealthy, result.Status)
	assert.Len(t, result.Checks, 2)
}

func TestRegistry_OneUnhealthyTaintsOverall(t *testing.T) {
	r := NewRegistry()
	r.Register(NewAdapterChecker("mongodb", checkable{err: errors.New("no reachable servers")}, time.Second))
	r.Register(NewAdapterChecker("redis", checkable{}, time.Second))

	result := r.Check(context.Background())
	assert.Equal(t, StatusUnhealthy, result.Status)

	for _, check := range result.Checks {
		if check.Name == "mongodb" {
			assert.Equal(t, StatusUnhealthy, check.Status)
			assert.Contains(t, check.Error, "no reachable servers")
		}
	}
}

func TestRegistry_ReplacesByName(t *testing.T) {
	r := NewRegistry()
	r.Register(NewAdapterChecker("mongodb", checkable{err: errors.New("down")}, time.Second))
	r.Register(NewAdapterChecker("mongodb", checkable{}, time.Second))

	result := r.Check(context.Background())
	assert.Equal(t, StatusHealthy, result.Status)
	assert.Len(t, result.Checks, 1)
}

func TestHandlers(t *testing.T) {
	registry := NewRegistry()
	registry.Register(NewAdapterChecker("mongodb", checkable{err: errors.New("down")}, time.Second))

	r := ginadapter.NewRouter()
	r.GET("/health/live", LivenessHandler())
	r.GET("/health/ready", ReadinessHandler(registry))

	req := httptest.NewRequest(http.MethodGet, "/health/live", http.NoBody)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/health/ready", http.NoBody)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "mongodb")
}
