package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/photodit/photodit/internal/events"
	"github.com/photodit/photodit/internal/idgen"
	"github.com/photodit/photodit/internal/model"
)

// createQuoteInput is the JSON body for POST /api/quotes.
type createQuoteInput struct {
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Service     string          `json:"service"`
	FileOptions json.RawMessage `json:"file_options"`
	Message     string          `json:"message"`
	FileURL     string          `json:"file_url"`
	CloudLink   string          `json:"cloud_link"`
}

// handleCreateQuote handles POST /api/quotes (the public form submission).
func (s *Server) handleCreateQuote(w http.ResponseWriter, r *http.Request) {
	var in createQuoteInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	id, err := idgen.Generate(idgen.QuotePrefix)
	if err != nil {
		s.logger.Error("failed to generate quote id", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to create quote request")
		return
	}

	quote := &model.QuoteRequest{
		ID:          id,
		Name:        in.Name,
		Email:       in.Email,
		Service:     in.Service,
		FileOptions: in.FileOptions,
		Message:     in.Message,
		FileURL:     in.FileURL,
		CloudLink:   in.CloudLink,
		Status:      model.QuoteStatusNew,
	}
	if err := quote.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.CreateQuoteRequest(r.Context(), quote); err != nil {
		s.logger.Error("failed to create quote request", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to create quote request")
		return
	}

	if err := s.publisher.Publish(r.Context(), events.TopicQuoteCreated, events.QuoteCreated{Quote: quote}); err != nil {
		s.logger.Warn("failed to publish quote created", "quote_id", quote.ID, "error", err)
	}

	writeJSON(w, http.StatusCreated, quote)
}

// handleListQuotes handles GET /api/quotes?status=...
func (s *Server) handleListQuotes(w http.ResponseWriter, r *http.Request) {
	status := model.QuoteStatus(r.URL.Query().Get("status"))
	if status != "" && !model.ValidQuoteStatus(status) {
		writeError(w, http.StatusBadRequest, "unknown status")
		return
	}

	quotes, err := s.store.ListQuoteRequests(r.Context(), status)
	if err != nil {
		s.logger.Error("failed to list quote requests", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to list quote requests")
		return
	}

	if quotes == nil {
		quotes = []*model.QuoteRequest{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"quotes": quotes})
}

// handleGetQuote handles GET /api/quotes/{id}.
func (s *Server) handleGetQuote(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	quote, err := s.store.GetQuoteRequest(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "quote request not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to get quote request", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to get quote request")
		return
	}

	writeJSON(w, http.StatusOK, quote)
}

// updateQuoteStatusInput is the JSON body for PATCH /api/quotes/{id}/status.
type updateQuoteStatusInput struct {
	Status model.QuoteStatus `json:"status"`
}

// handleUpdateQuoteStatus handles PATCH /api/quotes/{id}/status.
func (s *Server) handleUpdateQuoteStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	var in updateQuoteStatusInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !model.ValidQuoteStatus(in.Status) {
		writeError(w, http.StatusBadRequest, "unknown status")
		return
	}

	quote, err := s.store.UpdateQuoteStatus(r.Context(), id, in.Status)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "quote request not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to update quote status", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to update quote status")
		return
	}

	if err := s.publisher.Publish(r.Context(), events.TopicQuoteStatusChanged, events.QuoteStatusChanged{
		QuoteID: quote.ID,
		Status:  string(quote.Status),
	}); err != nil {
		s.logger.Warn("failed to publish quote status change", "quote_id", quote.ID, "error", err)
	}

	writeJSON(w, http.StatusOK, quote)
}
