// Package httpx holds small HTTP plumbing shared by the API handlers.
package httpx

import "net/http"

type CORS struct {
	AllowOrigin  string
	AllowMethods string
}

func (c CORS) Wrap(next http.Handler) http.Handler {
	origin := c.AllowOrigin
	if origin == "" {
		origin = "*"
	}
	methods := c.AllowMethods
	if methods == "" {
		methods = "GET,POST,OPTIONS"
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Preflight
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", methods)
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "600")
			w.WriteHeader(http.StatusNoContent)
			return
		}

		w.Header().Set("Access-Control-Allow-Origin", origin)
		next.ServeHTTP(w, r)
	})
}
