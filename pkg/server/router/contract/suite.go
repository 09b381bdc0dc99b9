// Package contract holds the conformance suite every router adapter must
// pass. Adapter packages call TestRouterContract from their own tests.
package contract

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mistertoy/mistertoy-server/pkg/apperr"
	"github.com/mistertoy/mistertoy-server/pkg/server/router"
)

// TestRouterContract runs the shared router conformance suite.
func TestRouterContract(t *testing.T, createRouter func() router.Router) {
	t.Helper()

	t.Run("http_methods", func(t *testing.T) {
		tests := []struct {
			method string
			path   string
			add    func(r router.Router, h router.HandlerFunc)
		}{
			{method: http.MethodGet, path: "/m/get", add: func(r router.Router, h router.HandlerFunc) { r.GET("/m/get", h) }},
			{method: http.MethodPost, path: "/m/post", add: func(r router.Router, h router.HandlerFunc) { r.POST("/m/post", h) }},
			{method: http.MethodPut, path: "/m/put", add: func(r router.Router, h router.HandlerFunc) { r.PUT("/m/put", h) }},
			{method: http.MethodDelete, path: "/m/delete", add: func(r router.Router, h router.HandlerFunc) { r.DELETE("/m/delete", h) }},
		}

		for _, tt := range tests {
			t.Run(tt.method, func(t *testing.T) {
				r := createRouter()
				tt.add(r, func(c router.Context) error {
					return c.String(http.StatusOK, tt.method)
				})

				res := performRequest(r, tt.method, tt.path, nil, "")
				if res.Code != http.StatusOK {
					t.Fatalf("expected 200, got %d", res.Code)
				}
				if res.Body.String() != tt.method {
					t.Fatalf("expected body %q, got %q", tt.method, res.Body.String())
				}
			})
		}

		r := createRouter()
		res := performRequest(r, http.MethodGet, "/not-registered", nil, "")
		if res.Code != http.StatusNotFound {
			t.Fatalf("expected 404 for unregistered route, got %d", res.Code)
		}
	})

	t.Run("groups", func(t *testing.T) {
		r := createRouter()
		api := r.Group("/api")
		api.GET("/toy", func(c router.Context) error { return c.String(http.StatusOK, "ok") })

		res := performRequest(r, http.MethodGet, "/api/toy", nil, "")
		if res.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", res.Code)
		}

		nested := api.Group("/admin")
		nested.GET("/stats", func(c router.Context) error { return c.String(http.StatusOK, "nested") })

		res = performRequest(r, http.MethodGet, "/api/admin/stats", nil, "")
		if res.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", res.Code)
		}

		headerMW := func(next router.HandlerFunc) router.HandlerFunc {
			return func(c router.Context) error {
				c.Response().Header().Set("X-Group", "on")
				return next(c)
			}
		}
		secured := r.Group("/secured", headerMW)
		secured.GET("/hello", func(c router.Context) error {
			return c.String(http.StatusOK, "hello")
		})

		res = performRequest(r, http.MethodGet, "/secured/hello", nil, "")
		if res.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", res.Code)
		}
		if res.Header().Get("X-Group") != "on" {
			t.Fatal("expected group middleware to run")
		}
	})

	t.Run("middleware_order", func(t *testing.T) {
		r := createRouter()
		order := make([]string, 0, 3)

		r.Use(func(next router.HandlerFunc) router.HandlerFunc {
			return func(c router.Context) error {
				order = append(order, "global")
				return next(c)
			}
		})

		r.GET("/m", func(c router.Context) error {
			order = append(order, "handler")
			return c.String(http.StatusOK, "ok")
		}, func(next router.HandlerFunc) router.HandlerFunc {
			return func(c router.Context) error {
				order = append(order, "route")
				return next(c)
			}
		})

		res := performRequest(r, http.MethodGet, "/m", nil, "")
		if res.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", res.Code)
		}

		expected := []string{"global", "route", "handler"}
		if len(order) != len(expected) {
			t.Fatalf("unexpected order length: %v", order)
		}
		for i := range expected {
			if order[i] != expected[i] {
				t.Fatalf("unexpected middleware order: %v", order)
			}
		}
	})

	t.Run("middleware_short_circuit", func(t *testing.T) {
		r := createRouter()
		handlerCalled := false
		r.GET("/stop", func(c router.Context) error {
			handlerCalled = true
			return c.String(http.StatusOK, "never")
		}, func(next router.HandlerFunc) router.HandlerFunc {
			return func(c router.Context) error {
				return apperr.NewUnauthenticated("login required")
			}
		})

		res := performRequest(r, http.MethodGet, "/stop", nil, "")
		if handlerCalled {
			t.Fatal("handler must not run when middleware rejects")
		}
		if res.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", res.Code)
		}
	})

	t.Run("path_params", func(t *testing.T) {
		r := createRouter()
		r.GET("/toy/:id", func(c router.Context) error {
			return c.String(http.StatusOK, c.Param("id"))
		})
		r.GET("/toy/:id/msg/:msgId", func(c router.Context) error {
			return c.String(http.StatusOK, c.Param("id")+":"+c.Param("msgId"))
		})

		if res := performRequest(r, http.MethodGet, "/toy/42", nil, ""); res.Body.String() != "42" {
			t.Fatalf("expected param 42, got %q", res.Body.String())
		}
		if res := performRequest(r, http.MethodGet, "/toy/t1/msg/m9", nil, ""); res.Body.String() != "t1:m9" {
			t.Fatalf("unexpected multiple params result: %q", res.Body.String())
		}
	})

	t.Run("query_params", func(t *testing.T) {
		r := createRouter()
		r.GET("/q", func(c router.Context) error { return c.String(http.StatusOK, c.Query("name")) })

		if res := performRequest(r, http.MethodGet, "/q?name=bear", nil, ""); res.Body.String() != "bear" {
			t.Fatalf("expected bear, got %q", res.Body.String())
		}
		if res := performRequest(r, http.MethodGet, "/q?name=first&name=second", nil, ""); res.Body.String() != "first" {
			t.Fatalf("expected first, got %q", res.Body.String())
		}
		if res := performRequest(r, http.MethodGet, "/q", nil, ""); res.Body.String() != "" {
			t.Fatalf("expected empty query value, got %q", res.Body.String())
		}
	})

	t.Run("cookies", func(t *testing.T) {
		r := createRouter()
		r.GET("/cookie", func(c router.Context) error {
			in, err := c.Cookie("loginToken")
			if err != nil {
				return c.String(http.StatusOK, "none")
			}
			c.SetCookie(&http.Cookie{Name: "echo", Value: in.Value, HttpOnly: true})
			return c.String(http.StatusOK, in.Value)
		})

		req := httptest.NewRequest(http.MethodGet, "/cookie", http.NoBody)
		req.AddCookie(&http.Cookie{Name: "loginToken", Value: "tok123"})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Body.String() != "tok123" {
			t.Fatalf("expected cookie value, got %q", w.Body.String())
		}
		found := false
		for _, c := range w.Result().Cookies() {
			if c.Name == "echo" && c.Value == "tok123" && c.HttpOnly {
				found = true
			}
		}
		if !found {
			t.Fatal("expected Set-Cookie for echo")
		}

		if res := performRequest(r, http.MethodGet, "/cookie", nil, ""); res.Body.String() != "none" {
			t.Fatalf("expected none for missing cookie, got %q", res.Body.String())
		}
	})

	t.Run("bind", func(t *testing.T) {
		type in struct {
			Name string `json:"name"`
		}

		r := createRouter()
		r.POST("/bind", func(c router.Context) error {
			var payload in
			if err := c.Bind(&payload); err != nil {
				return c.String(http.StatusBadRequest, "bind-error")
			}
			return c.String(http.StatusOK, payload.Name)
		})

		body, _ := json.Marshal(in{Name: "teddy"})
		if res := performRequest(r, http.MethodPost, "/bind", bytes.NewReader(body), "application/json"); res.Body.String() != "teddy" {
			t.Fatalf("expected teddy, got %q", res.Body.String())
		}

		if res := performRequest(r, http.MethodPost, "/bind", strings.NewReader("{"), "application/json"); res.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 invalid json, got %d", res.Code)
		}

		if res := performRequest(r, http.MethodPost, "/bind", nil, "application/json"); res.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 empty body, got %d", res.Code)
		}

		if res := performRequest(r, http.MethodPost, "/bind", strings.NewReader("name=x"), "text/plain"); res.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 unsupported content-type, got %d", res.Code)
		}
	})

	t.Run("error_mapping", func(t *testing.T) {
		r := createRouter()
		r.GET("/classified", func(c router.Context) error {
			return apperr.NewNotFound("toy not found")
		})
		r.GET("/opaque", func(c router.Context) error { return errors.New("boom") })
		r.GET("/already-written", func(c router.Context) error {
			if err := c.String(http.StatusBadRequest, "bad"); err != nil {
				return err
			}
			return errors.New("ignored")
		})

		res := performRequest(r, http.MethodGet, "/classified", nil, "")
		if res.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", res.Code)
		}
		var body map[string]interface{}
		if err := json.Unmarshal(res.Body.Bytes(), &body); err != nil {
			t.Fatalf("expected JSON error body: %v", err)
		}
		if body["error"] != apperr.CodeNotFound {
			t.Fatalf("expected error code %q, got %v", apperr.CodeNotFound, body["error"])
		}

		res = performRequest(r, http.MethodGet, "/opaque", nil, "")
		if res.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", res.Code)
		}
		if strings.Contains(res.Body.String(), "boom") {
			t.Fatal("opaque error text must not leak to clients")
		}

		res = performRequest(r, http.MethodGet, "/already-written", nil, "")
		if res.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", res.Code)
		}
		if res.Body.String() != "bad" {
			t.Fatalf("expected bad, got %q", res.Body.String())
		}
	})

	t.Run("response_writer", func(t *testing.T) {
		r := createRouter()
		r.GET("/rw1", func(c router.Context) error {
			rw := c.Response()
			if rw.Written() {
				t.Fatal("Written must be false before writes")
			}
			if _, err := rw.Write([]byte("ok")); err != nil {
				return err
			}
			if !rw.Written() {
				t.Fatal("Written must be true after write")
			}
			if rw.Status() != http.StatusOK {
				t.Fatalf("expected status 200, got %d", rw.Status())
			}
			return nil
		})

		if res := performRequest(r, http.MethodGet, "/rw1", nil, ""); res.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", res.Code)
		}

		r = createRouter()
		r.GET("/rw2", func(c router.Context) error {
			rw := c.Response()
			rw.WriteHeader(http.StatusCreated)
			if rw.Status() != http.StatusCreated {
				t.Fatalf("expected status 201, got %d", rw.Status())
			}
			return nil
		})
		if res := performRequest(r, http.MethodGet, "/rw2", nil, ""); res.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", res.Code)
		}
	})
}

func performRequest(r router.Router, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	var testBody io.Reader = http.NoBody
	if body != nil {
		testBody = body
	}
	req := httptest.NewRequest(method, path, testBody)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
