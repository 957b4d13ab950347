package server

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// AuthMiddleware wraps next with bearer-token auth. A blank token disables
// auth entirely. Routes that serve the public site (content reads, quote
// submission) and the health check are always exempt; everything else is
// an admin surface and must present the token.
func AuthMiddleware(token string, next http.Handler) http.Handler {
	if token == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if publicRoute(r) {
			next.ServeHTTP(w, r)
			return
		}

		auth := r.Header.Get("Authorization")
		if auth == "" {
			writeError(w, http.StatusUnauthorized, "missing authorization header")
			return
		}

		if !strings.HasPrefix(auth, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "invalid authorization scheme")
			return
		}

		provided := strings.TrimPrefix(auth, "Bearer ")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// publicRoute reports whether the request serves the public site rather
// than the admin panel.
func publicRoute(r *http.Request) bool {
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/health":
		return true
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/api/content"):
		return true
	case r.Method == http.MethodPost && r.URL.Path == "/api/quotes":
		return true
	}
	return false
}
