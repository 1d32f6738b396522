// Package routes declares HTTP endpoints as data so domain handlers can
// describe their surface without touching a mux directly.
package routes

import "net/http"

// Route binds one HTTP method and pattern to a handler. Pattern is relative
// to the enclosing group's prefix.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}
