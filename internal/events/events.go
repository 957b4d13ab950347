package events

import (
	"context"
	"time"

	"github.com/photodit/photodit/internal/model"
)

// Event topic constants
const (
	TopicContentUpdated = "photodit.content.updated"

	TopicMediaUploaded = "photodit.media.uploaded"
	TopicMediaDeleted  = "photodit.media.deleted"

	TopicQuoteCreated       = "photodit.quote.created"
	TopicQuoteStatusChanged = "photodit.quote.status_changed"
)

// Event types

type ContentUpdated struct {
	Key         string    `json:"key"`
	LastUpdated time.Time `json:"last_updated"`
}

type MediaUploaded struct {
	File *model.MediaFile `json:"file"`
}

type MediaDeleted struct {
	PublicID string `json:"public_id"`
}

type QuoteCreated struct {
	Quote *model.QuoteRequest `json:"quote"`
}

type QuoteStatusChanged struct {
	QuoteID string `json:"quote_id"`
	Status  string `json:"status"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
