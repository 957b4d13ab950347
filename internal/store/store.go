package store

import (
	"context"

	"github.com/photodit/photodit/internal/model"
)

// Store defines the persistence interface for the CMS backend.
type Store interface {
	// Content documents. There is deliberately no delete: documents are
	// only ever overwritten.
	SetDocument(ctx context.Context, doc *model.ConfigDocument) error
	GetDocument(ctx context.Context, key string) (*model.ConfigDocument, error)
	ListDocuments(ctx context.Context) ([]*model.ConfigDocument, error)

	// Media bookkeeping
	SaveMediaFile(ctx context.Context, file *model.MediaFile) error
	GetMediaFile(ctx context.Context, publicID string) (*model.MediaFile, error)
	ListMediaFiles(ctx context.Context, folder string) ([]*model.MediaFile, error)
	DeleteMediaFile(ctx context.Context, publicID string) error

	// Quote requests
	CreateQuoteRequest(ctx context.Context, quote *model.QuoteRequest) error
	GetQuoteRequest(ctx context.Context, id string) (*model.QuoteRequest, error)
	ListQuoteRequests(ctx context.Context, status model.QuoteStatus) ([]*model.QuoteRequest, error)
	UpdateQuoteStatus(ctx context.Context, id string, status model.QuoteStatus) (*model.QuoteRequest, error)

	// Transaction support
	RunInTransaction(ctx context.Context, fn func(tx Store) error) error

	// Lifecycle
	Close() error
}
