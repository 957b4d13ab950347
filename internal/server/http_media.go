package server

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/photodit/photodit/internal/media"
	"github.com/photodit/photodit/internal/model"
)

// maxUploadBytes bounds the multipart form held in memory per upload.
const maxUploadBytes = 32 << 20

// handleUpload handles POST /api/upload (multipart form).
// Fields: file (required), folder, replace_public_id. Returns the CDN URL
// and the public identifier of the stored asset.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if s.media == nil {
		writeError(w, http.StatusServiceUnavailable, "media storage not configured")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	folder := r.FormValue("folder")
	if folder == "" {
		folder = r.FormValue("directory")
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	record, err := s.media.Upload(r.Context(), media.UploadInput{
		Body:            file,
		OriginalName:    header.Filename,
		ContentType:     contentType,
		Size:            header.Size,
		Folder:          folder,
		ReplacePublicID: r.FormValue("replace_public_id"),
	})
	if err != nil {
		s.logger.Error("upload failed", "filename", header.Filename, "err", err)
		writeError(w, http.StatusInternalServerError, "upload failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"url":       record.URL,
		"public_id": record.PublicID,
	})
}

// handleListMedia handles GET /api/media?folder=...
func (s *Server) handleListMedia(w http.ResponseWriter, r *http.Request) {
	files, err := s.store.ListMediaFiles(r.Context(), r.URL.Query().Get("folder"))
	if err != nil {
		s.logger.Error("failed to list media", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to list media")
		return
	}

	if files == nil {
		files = []*model.MediaFile{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"files": files})
}

// handleDeleteMedia handles DELETE /api/media/{public_id}.
// Object keys contain slashes, so the route uses a trailing wildcard.
func (s *Server) handleDeleteMedia(w http.ResponseWriter, r *http.Request) {
	publicID := r.PathValue("public_id")
	if publicID == "" {
		writeError(w, http.StatusBadRequest, "public_id is required")
		return
	}

	if s.media == nil {
		writeError(w, http.StatusServiceUnavailable, "media storage not configured")
		return
	}

	if err := s.media.Delete(r.Context(), publicID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "media file not found")
			return
		}
		s.logger.Error("failed to delete media", "public_id", publicID, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to delete media")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
