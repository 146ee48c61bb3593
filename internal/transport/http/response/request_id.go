package response

import "net/http"

// RequestIDFromRequest extracts the request id from HTTP headers, for
// call sites that run before the request-id middleware populated the
// context.
func RequestIDFromRequest(r *http.Request) string {
	if v := r.Header.Get("X-Request-Id"); v != "" {
		return v
	}
	return r.Header.Get("X-Request-ID")
}
