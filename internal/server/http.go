package server

import (
	"encoding/json"
	"net/http"
)

// NewHTTPHandler returns an http.Handler with all routes registered.
// When authToken is non-empty, admin requests must include a valid
// Authorization: Bearer <token> header; public page reads, quote
// submission, and the health check stay open.
func (s *Server) NewHTTPHandler(authToken string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)

	mux.HandleFunc("GET /api/content", s.handleListContent)
	mux.HandleFunc("GET /api/content/{key}", s.handleGetContent)
	mux.HandleFunc("PUT /api/content/{key}", s.handlePutContent)
	mux.HandleFunc("POST /api/cache/clear", s.handleClearCache)

	mux.HandleFunc("POST /api/upload", s.handleUpload)
	mux.HandleFunc("GET /api/media", s.handleListMedia)
	mux.HandleFunc("DELETE /api/media/{public_id...}", s.handleDeleteMedia)

	mux.HandleFunc("POST /api/quotes", s.handleCreateQuote)
	mux.HandleFunc("GET /api/quotes", s.handleListQuotes)
	mux.HandleFunc("GET /api/quotes/{id}", s.handleGetQuote)
	mux.HandleFunc("PATCH /api/quotes/{id}/status", s.handleUpdateQuoteStatus)

	return AuthMiddleware(authToken, mux)
}

// handleHealth handles GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
