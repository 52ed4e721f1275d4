package router

import (
	"net/http"
	"strings"
)

// Router abstracts route registration so implementations can be swapped.
// Patterns follow the "METHOD /path" form; a pattern without a method
// defaults to GET.
type Router interface {
	http.Handler

	// Handle registers a handler for the given pattern.
	Handle(pattern string, handler http.Handler)

	// HandleFunc registers a handler function for the given pattern.
	HandleFunc(pattern string, handler func(http.ResponseWriter, *http.Request))
}

// SplitPattern separates the optional method prefix from the path.
func SplitPattern(pattern string) (method, path string) {
	method, path, found := strings.Cut(pattern, " ")
	if !found {
		return http.MethodGet, pattern
	}
	return method, path
}
