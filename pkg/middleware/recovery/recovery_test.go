package recovery

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mistertoy/mistertoy-server/pkg/middleware/testutil"
	"github.com/mistertoy/mistertoy-server/pkg/server/router"
	ginadapter "github.com/mistertoy/mistertoy-server/pkg/server/router/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecovery_PanicBecomes500(t *testing.T) {
	mock := &testutil.MockLogger{}
	r := ginadapter.NewRouter()
	r.Use(Recovery(mock))
	r.GET("/boom", func(c router.Context) error {
		panic("kaboom")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", http.NoBody)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "kaboom")

	entries := mock.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "panic recovered", entries[0].Msg)
	assert.Equal(t, "kaboom", entries[0].Fields["panic"])
	assert.NotEmpty(t, entries[0].Fields["stack"])
}

func TestRecovery_WrittenResponseIsLeftAlone(t *testing.T) {
	r := ginadapter.NewRouter()
	r.Use(Recovery(&testutil.MockLogger{}))
	r.GET("/late", func(c router.Context) error {
		if err := c.String(http.StatusAccepted, "partial"); err != nil {
			return err
		}
		panic("after write")
	})

	req := httptest.NewRequest(http.MethodGet, "/late", http.NoBody)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "partial", w.Body.String())
}

func TestRecovery_NormalRequestPassesThrough(t *testing.T) {
	r := ginadapter.NewRouter()
	r.Use(Recovery(&testutil.MockLogger{}))
	r.GET("/fine", func(c router.Context) error { return c.String(http.StatusOK, "ok") })

	req := httptest.NewRequest(http.MethodGet, "/fine", http.NoBody)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
