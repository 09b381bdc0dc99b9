// Package router defines the routing abstraction the HTTP API is built
// against. Two implementations exist, gin-gonic and gorilla/mux; the factory
// picks one from configuration.
package router

import (
	"errors"
	"net/http"

	"github.com/mistertoy/mistertoy-server/pkg/apperr"
)

// Router registers handlers for the HTTP methods the API uses.
type Router interface {
	GET(path string, handler HandlerFunc, middleware ...MiddlewareFunc)
	POST(path string, handler HandlerFunc, middleware ...MiddlewareFunc)
	PUT(path string, handler HandlerFunc, middleware ...MiddlewareFunc)
	DELETE(path string, handler HandlerFunc, middleware ...MiddlewareFunc)

	// Group creates a route group with a common prefix and middleware.
	Group(prefix string, middleware ...MiddlewareFunc) Router

	// Use applies middleware to all routes registered afterwards.
	Use(middleware ...MiddlewareFunc)

	ServeHTTP(w http.ResponseWriter, r *http.Request)
}

// HandlerFunc handles one request. A returned error that nothing has written
// a response for yet is translated by the adapter; see WriteError.
type HandlerFunc func(Context) error

// MiddlewareFunc wraps a HandlerFunc.
type MiddlewareFunc func(HandlerFunc) HandlerFunc

// Context is the router-agnostic view of one request.
type Context interface {
	Request() *http.Request
	SetRequest(r *http.Request)
	Response() ResponseWriter

	// Param returns a path parameter declared as :name in the route.
	Param(name string) string
	// Query returns a query string parameter.
	Query(name string) string
	// Cookie returns the named request cookie, or http.ErrNoCookie.
	Cookie(name string) (*http.Cookie, error)
	// SetCookie adds a Set-Cookie header to the response.
	SetCookie(cookie *http.Cookie)

	// Bind decodes a JSON request body into v.
	Bind(v interface{}) error
	// JSON writes v with the given status code.
	JSON(code int, v interface{}) error
	// String writes a plain text body with the given status code.
	String(code int, s string) error
}

// ResponseWriter tracks whether and with what status a response was written.
type ResponseWriter interface {
	http.ResponseWriter

	Status() int
	Written() bool
}

// errorBody is the uniform JSON error shape.
type errorBody struct {
	Error   string                 `json:"error"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// WriteError maps err onto an HTTP error response. Classified errors carry
// their own status and code; anything else is an opaque 500. Adapters call
// this for handler errors that have not produced a response; handlers may
// call it directly.
func WriteError(c Context, err error) {
	if c.Response().Written() {
		return
	}

	var appErr *apperr.AppError
	if errors.As(err, &appErr) {
		_ = c.JSON(appErr.HTTPStatus, errorBody{
			Error:   appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		})
		return
	}
	_ = c.JSON(http.StatusInternalServerError, errorBody{
		Error:   "internal",
		Message: "internal server error",
	})
}
