// Package middleware provides an ordered HTTP middleware stack plus the
// request logging and CORS middleware the server composes onto it.
package middleware

import "net/http"

// System manages an ordered stack of HTTP middleware.
type System interface {
	Use(mw func(http.Handler) http.Handler)
	Apply(handler http.Handler) http.Handler
}

type stack struct {
	middleware []func(http.Handler) http.Handler
}

// New creates an empty middleware System.
func New() System {
	return &stack{}
}

func (s *stack) Use(fn func(http.Handler) http.Handler) {
	s.middleware = append(s.middleware, fn)
}

// Apply wraps handler so the first registered middleware runs outermost.
func (s *stack) Apply(handler http.Handler) http.Handler {
	for i := len(s.middleware) - 1; i >= 0; i-- {
		handler = s.middleware[i](handler)
	}
	return handler
}
