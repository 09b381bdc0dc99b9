package requestid

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/mistertoy/mistertoy-server/pkg/observability/logger"
	"github.com/mistertoy/mistertoy-server/pkg/server/router"
	ginadapter "github.com/mistertoy/mistertoy-server/pkg/server/router/gin"
	"github.com/stretchr/testify/assert"
)

var uuidPattern = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}$`)

func newRouter(captured *string) router.Router {
	r := ginadapter.NewRouter()
	r.Use(RequestID())
	r.GET("/t", func(c router.Context) error {
		*captured = logger.RequestIDFromContext(c.Request().Context())
		return c.String(http.StatusOK, "ok")
	})
	return r
}

func TestRequestID_GeneratesUUIDWhenAbsent(t *testing.T) {
	var captured string
	r := newRouter(&captured)

	req := httptest.NewRequest(http.MethodGet, "/t", http.NoBody)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	echoed := w.Header().Get(RequestIDHeader)
	assert.True(t, uuidPattern.MatchString(echoed), "expected a UUID, got %q", echoed)
	assert.Equal(t, echoed, captured)
}

func TestProperty_RequestIDPreserved(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	genRequestID := gen.AlphaString().SuchThat(func(s string) bool {
		return len(s) > 0 && len(s) <= 100
	})

	properties.Property("incoming id survives to response header and context", prop.ForAll(
		func(existingID string) bool {
			var captured string
			r := newRouter(&captured)

			req := httptest.NewRequest(http.MethodGet, "/t", http.NoBody)
			req.Header.Set(RequestIDHeader, existingID)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			return w.Header().Get(RequestIDHeader) == existingID && captured == existingID
		},
		genRequestID,
	))

	properties.TestingRun(t)
}
