package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/photodit/photodit/internal/model"
	"github.com/photodit/photodit/internal/store"
)

// line is one JSONL record. Kind distinguishes documents from quotes so a
// restore tool can route them without sniffing fields.
type line struct {
	Kind     string                `json:"kind"`
	Document *model.ConfigDocument `json:"document,omitempty"`
	Quote    *model.QuoteRequest   `json:"quote,omitempty"`
}

// ExportJSONL writes every content document and quote request as one JSON
// object per line. Media records are not exported; the CDN bucket is its
// own durable copy.
func ExportJSONL(ctx context.Context, s store.Store, w io.Writer) error {
	enc := json.NewEncoder(w)

	docs, err := s.ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}
	for _, d := range docs {
		if err := enc.Encode(line{Kind: "config", Document: d}); err != nil {
			return fmt.Errorf("encode document %q: %w", d.Key, err)
		}
	}

	quotes, err := s.ListQuoteRequests(ctx, "")
	if err != nil {
		return fmt.Errorf("list quote requests: %w", err)
	}
	for _, q := range quotes {
		if err := enc.Encode(line{Kind: "quote", Quote: q}); err != nil {
			return fmt.Errorf("encode quote %q: %w", q.ID, err)
		}
	}

	return nil
}
