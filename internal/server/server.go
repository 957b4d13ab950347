package server

import (
	"log/slog"

	"github.com/photodit/photodit/internal/content"
	"github.com/photodit/photodit/internal/events"
	"github.com/photodit/photodit/internal/media"
	"github.com/photodit/photodit/internal/store"
)

// Server holds the handler dependencies for the content API.
// media may be nil when no bucket is configured; upload routes then
// respond 503.
type Server struct {
	store     store.Store
	content   *content.Service
	media     *media.Service
	publisher events.Publisher
	logger    *slog.Logger
}

// NewServer returns a Server backed by the given store and services.
func NewServer(s store.Store, c *content.Service, m *media.Service, p events.Publisher, logger *slog.Logger) *Server {
	return &Server{
		store:     s,
		content:   c,
		media:     m,
		publisher: p,
		logger:    logger,
	}
}
