// Package gorilla implements router.Router on top of gorilla/mux.
package gorilla

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/mux"
	"github.com/mistertoy/mistertoy-server/pkg/server/router"
)

// Router adapts a mux.Router to the router.Router contract. Route paths use
// the :name parameter style; they are rewritten to mux's {name} form.
type Router struct {
	router     *mux.Router
	middleware []router.MiddlewareFunc
	mu         *sync.RWMutex
}

// NewRouter creates a gorilla/mux-backed router.
func NewRouter() *Router {
	return &Router{router: mux.NewRouter(), mu: &sync.RWMutex{}}
}

func (r *Router) GET(path string, handler router.HandlerFunc, middleware ...router.MiddlewareFunc) {
	r.handle(http.MethodGet, path, handler, middleware)
}

func (r *Router) POST(path string, handler router.HandlerFunc, middleware ...router.MiddlewareFunc) {
	r.handle(http.MethodPost, path, handler, middleware)
}

func (r *Router) PUT(path string, handler router.HandlerFunc, middleware ...router.MiddlewareFunc) {
	r.handle(http.MethodPut, path, handler, middleware)
}

func (r *Router) DELETE(path string, handler router.HandlerFunc, middleware ...router.MiddlewareFunc) {
	r.handle(http.MethodDelete, path, handler, middleware)
}

// Group creates a route group. The group inherits the middleware registered
// on r so far.
func (r *Router) Group(prefix string, middleware ...router.MiddlewareFunc) router.Router {
	r.mu.RLock()
	combined := append([]router.MiddlewareFunc{}, r.middleware...)
	r.mu.RUnlock()
	combined = append(combined, middleware...)

	return &Router{
		router:     r.router.PathPrefix(prefix).Subrouter(),
		middleware: combined,
		mu:         r.mu,
	}
}

func (r *Router) Use(middleware ...router.MiddlewareFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middleware = append(r.middleware, middleware...)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}

func (r *Router) handle(method, path string, h router.HandlerFunc, routeMiddleware []router.MiddlewareFunc) {
	r.mu.RLock()
	global := append([]router.MiddlewareFunc{}, r.middleware...)
	r.mu.RUnlock()

	r.router.HandleFunc(toMuxPath(path), func(w http.ResponseWriter, req *http.Request) {
		ctx := newContext(w, req)
		handler := h

		for i := len(routeMiddleware) - 1; i >= 0; i-- {
			handler = routeMiddleware[i](handler)
		}
		for i := len(global) - 1; i >= 0; i-- {
			handler = global[i](handler)
		}

		if err := handler(ctx); err != nil {
			router.WriteError(ctx, err)
		}
	}).Methods(method)
}

func toMuxPath(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if strings.HasPrefix(p, ":") {
			parts[i] = "{" + p[1:] + "}"
		}
	}
	return strings.Join(parts, "/")
}

// muxContext adapts a plain request/response pair to router.Context.
type muxContext struct {
	request  *http.Request
	response *responseWriter
}

func newContext(w http.ResponseWriter, r *http.Request) *muxContext {
	return &muxContext{request: r, response: &responseWriter{ResponseWriter: w}}
}

func (c *muxContext) Request() *http.Request {
	return c.request
}

func (c *muxContext) SetRequest(r *http.Request) {
	c.request = r
}

func (c *muxContext) Response() router.ResponseWriter {
	return c.response
}

func (c *muxContext) Param(name string) string {
	return mux.Vars(c.request)[name]
}

func (c *muxContext) Query(name string) string {
	return c.request.URL.Query().Get(name)
}

func (c *muxContext) Cookie(name string) (*http.Cookie, error) {
	return c.request.Cookie(name)
}

func (c *muxContext) SetCookie(cookie *http.Cookie) {
	http.SetCookie(c.response, cookie)
}

func (c *muxContext) Bind(v interface{}) error {
	if c.request.Body == nil || c.request.Body == http.NoBody {
		return fmt.Errorf("request body is empty")
	}
	defer c.request.Body.Close()

	contentType := c.request.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		return fmt.Errorf("unsupported content type: %s", contentType)
	}
	return json.NewDecoder(c.request.Body).Decode(v)
}

func (c *muxContext) JSON(code int, v interface{}) error {
	c.response.Header().Set("Content-Type", "application/json")
	c.response.WriteHeader(code)
	return json.NewEncoder(c.response).Encode(v)
}

func (c *muxContext) String(code int, s string) error {
	c.response.Header().Set("Content-Type", "text/plain")
	c.response.WriteHeader(code)
	_, err := io.WriteString(c.response, s)
	return err
}

// responseWriter wraps http.ResponseWriter and tracks status/written state.
type responseWriter struct {
	http.ResponseWriter
	mu      sync.RWMutex
	status  int
	written bool
}

func (w *responseWriter) WriteHeader(code int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.written {
		return
	}
	w.status = code
	w.written = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.Written() {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func (w *responseWriter) Status() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func (w *responseWriter) Written() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.written
}

func (w *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hijacker.Hijack()
}

func (w *responseWriter) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
