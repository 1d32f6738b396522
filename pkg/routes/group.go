package routes

import "net/http"

// Group collects routes under a shared prefix. Child groups nest their
// prefixes beneath the parent's.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Register walks the given groups and registers every route on mux using
// Go 1.22 method-qualified patterns ("GET /documents/{id}").
func Register(mux *http.ServeMux, groups ...Group) {
	for _, group := range groups {
		registerGroup(mux, "", group)
	}
}

func registerGroup(mux *http.ServeMux, parent string, group Group) {
	prefix := parent + group.Prefix

	for _, route := range group.Routes {
		mux.HandleFunc(route.Method+" "+prefix+route.Pattern, route.Handler)
	}

	for _, child := range group.Children {
		registerGroup(mux, prefix, child)
	}
}
