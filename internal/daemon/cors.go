package daemon

import (
	"net/http"
	"path"
)

// cors allows cross-origin requests from origins matching one of the glob
// patterns (e.g. "https://*.esa.io").
func cors(patterns []string) func(http.Handler) http.Handler {
	allowed := func(origin string) bool {
		for _, p := range patterns {
			if ok, _ := path.Match(p, origin); ok {
				return true
			}
		}
		return false
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}
			if !allowed(origin) {
				writeError(w, http.StatusForbidden, "origin not allowed")
				return
			}

			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
			if r.Method == http.MethodOptions {
				h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Content-Type")
				h.Set("Access-Control-Max-Age", "600")
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
