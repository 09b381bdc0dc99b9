package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mistertoy/mistertoy-server/pkg/server/router"
	ginadapter "github.com/mistertoy/mistertoy-server/pkg/server/router/gin"
	"github.com/stretchr/testify/assert"
)

func newLimitedRouter(rps, burst int) router.Router {
	r := ginadapter.NewRouter()
	limiter := NewTokenBucketLimiter(rps, burst)
	r.Use(RateLimit(limiter, Config{RequestsPerSecond: rps, Burst: burst}))
	r.GET("/t", func(c router.Context) error { return c.String(http.StatusOK, "ok") })
	return r
}

func performFrom(r router.Router, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/t", http.NoBody)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimit_AllowsWithinBurst(t *testing.T) {
	r := newLimitedRouter(1, 3)
	for i := 0; i < 3; i++ {
		res := performFrom(r, "10.0.0.1:1234")
		assert.Equal(t, http.StatusOK, res.Code, "request %d", i)
	}
}

func TestRateLimit_RejectsOverBurst(t *testing.T) {
	r := newLimitedRouter(1, 2)
	performFrom(r, "10.0.0.1:1234")
	performFrom(r, "10.0.0.1:1234")

	res := performFrom(r, "10.0.0.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, res.Code)
	assert.Equal(t, "1", res.Header().Get("Retry-After"))
}

func TestRateLimit_KeysAreIndependent(t *testing.T) {
	r := newLimitedRouter(1, 1)
	performFrom(r, "10.0.0.1:1234")

	res := performFrom(r, "10.0.0.2:9876")
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestClientIP_StripsPort(t *testing.T) {
	limiter := NewTokenBucketLimiter(1, 1)
	r := ginadapter.NewRouter()
	var key string
	r.Use(RateLimit(limiter, Config{KeyFunc: func(c router.Context) string {
		key = ClientIP(c)
		return key
	}}))
	r.GET("/t", func(c router.Context) error { return c.String(http.StatusOK, "ok") })

	performFrom(r, "192.168.1.7:5555")
	assert.Equal(t, "192.168.1.7", key)
}
