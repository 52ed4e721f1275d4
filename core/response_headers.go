package core

import (
	"net/http"
)

var HeadersJson = map[string]string{

	"Content-Type": "application/json; charset=utf-8",

	// Ensure the browser respects the declared content type strictly,
	// mitigating MIME-type sniffing attacks.
	"X-Content-Type-Options": "nosniff",

	// The response must not be stored in any cache, anywhere.
	// no-store alone is enough; no-cache and must-revalidate are assurance
	// if something downstream misinterprets no-store.
	"Cache-Control": "no-store, no-cache, must-revalidate",

	// Prevents the response from being embedded in an <iframe>.
	"X-Frame-Options": "DENY",

	// frame-ancestors 'none' is the modern replacement for X-Frame-Options;
	// default-src 'none' asserts the response is never an active document.
	"Content-Security-Policy": "default-src 'none'; frame-ancestors 'none'",
}

// HeadersAvatar defines cache headers for served avatar files. Filenames are
// uuid-based, so a changed avatar is a new URL and long caching is safe.
var HeadersAvatar = map[string]string{
	"Cache-Control":          "public, max-age=86400",
	"X-Content-Type-Options": "nosniff",
}

// setHeaders applies one or more sets of headers to the response writer.
// Headers from later maps will overwrite headers from earlier maps if keys conflict.
func setHeaders(w http.ResponseWriter, headers ...map[string]string) {
	for _, headerMap := range headers {
		for key, value := range headerMap {
			w.Header().Set(key, value)
		}
	}
}
