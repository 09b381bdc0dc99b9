package logging

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mistertoy/mistertoy-server/pkg/apperr"
	"github.com/mistertoy/mistertoy-server/pkg/middleware/testutil"
	"github.com/mistertoy/mistertoy-server/pkg/server/router"
	ginadapter "github.com/mistertoy/mistertoy-server/pkg/server/router/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func perform(r router.Router, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLogging_LogsCompletedRequest(t *testing.T) {
	mock := &testutil.MockLogger{}
	r := ginadapter.NewRouter()
	r.Use(Logging(mock))
	r.GET("/toy", func(c router.Context) error { return c.String(http.StatusOK, "ok") })

	perform(r, "/toy")

	entries := mock.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "request completed", entries[0].Msg)
	assert.Equal(t, http.MethodGet, entries[0].Fields["method"])
	assert.Equal(t, "/toy", entries[0].Fields["path"])
	assert.Equal(t, http.StatusOK, entries[0].Fields["status"])
}

func TestLogging_ErrorStatusReflectsClassification(t *testing.T) {
	mock := &testutil.MockLogger{}
	r := ginadapter.NewRouter()
	r.Use(Logging(mock))
	r.GET("/missing", func(c router.Context) error {
		return apperr.NewNotFound("toy not found")
	})

	res := perform(r, "/missing")
	assert.Equal(t, http.StatusNotFound, res.Code)

	entries := mock.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, http.StatusNotFound, entries[0].Fields["status"])
	assert.Contains(t, entries[0].Fields["error"], "toy not found")
}

func TestLogging_ExcludedPrefixIsSilent(t *testing.T) {
	mock := &testutil.MockLogger{}
	r := ginadapter.NewRouter()
	r.Use(WithConfig(mock, Config{ExcludedPathPrefixes: []string{"/health"}}))
	r.GET("/health/live", func(c router.Context) error { return c.String(http.StatusOK, "ok") })
	r.GET("/toy", func(c router.Context) error { return c.String(http.StatusOK, "ok") })

	perform(r, "/health/live")
	assert.Empty(t, mock.Entries())

	perform(r, "/toy")
	assert.Len(t, mock.Entries(), 1)
}
