package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/photodit/photodit/internal/content"
)

// handleGetContent handles GET /api/content/{key}.
// With ?section=name it returns just that top-level property, where a
// missing document or property is JSON null rather than an error.
func (s *Server) handleGetContent(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "key is required")
		return
	}

	if section := r.URL.Query().Get("section"); section != "" {
		value, err := s.content.Section(r.Context(), key, section)
		if err != nil {
			s.logger.Error("failed to get section", "key", key, "section", section, "err", err)
			writeError(w, http.StatusInternalServerError, "failed to get content")
			return
		}
		if value == nil {
			value = json.RawMessage("null")
		}
		writeJSON(w, http.StatusOK, value)
		return
	}

	data, err := s.content.Get(r.Context(), key)
	if errors.Is(err, content.ErrNotFound) {
		writeError(w, http.StatusNotFound, "content not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to get content", "key", key, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to get content")
		return
	}

	writeJSON(w, http.StatusOK, data)
}

// handlePutContent handles PUT /api/content/{key}.
// Without a section parameter the body replaces the whole document
// (upsert). With ?section=name the body replaces that top-level property;
// this fails with 404 when the parent document does not exist, and no row
// is created.
func (s *Server) handlePutContent(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "key is required")
		return
	}

	var body json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if section := r.URL.Query().Get("section"); section != "" {
		ok, err := s.content.UpdateSection(r.Context(), key, section, body)
		if err != nil {
			s.logger.Error("failed to update section", "key", key, "section", section, "err", err)
			writeError(w, http.StatusInternalServerError, "failed to save content")
			return
		}
		if !ok {
			writeError(w, http.StatusNotFound, "content not found")
			return
		}
		writeJSON(w, http.StatusOK, body)
		return
	}

	if err := s.content.Save(r.Context(), key, body); err != nil {
		s.logger.Error("failed to save content", "key", key, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to save content")
		return
	}

	writeJSON(w, http.StatusOK, body)
}

// handleListContent handles GET /api/content. It always reads through to
// the database, bypassing the per-key cache.
func (s *Server) handleListContent(w http.ResponseWriter, r *http.Request) {
	all, err := s.content.All(r.Context())
	if err != nil {
		s.logger.Error("failed to list content", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to list content")
		return
	}
	writeJSON(w, http.StatusOK, all)
}

// handleClearCache handles POST /api/cache/clear.
func (s *Server) handleClearCache(w http.ResponseWriter, _ *http.Request) {
	s.content.ClearCache()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
