// Package content implements the document store façade: named, opaque JSON
// documents persisted through store.Store with a process-local fixed-TTL
// read cache in front.
//
// The cache exists to cut read load on frequently rendered pages, not for
// correctness: each process instance has its own cache, and a peer's write
// may not be visible until the entry expires.
package content

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/photodit/photodit/internal/events"
	"github.com/photodit/photodit/internal/model"
	"github.com/photodit/photodit/internal/store"
)

// DefaultTTL is how long a cached document is served before the next read
// goes back to the database.
const DefaultTTL = 5 * time.Minute

// ErrNotFound is returned by Get when no document exists for the key.
// Callers use it to distinguish "never configured" from a store failure.
var ErrNotFound = errors.New("content: document not found")

// Service provides get/set/section semantics over named JSON documents.
// Writes are full-document replacements, last-write-wins; UpdateSection is
// a read-modify-write with no locking, so concurrent section edits against
// the same document can lose one update.
type Service struct {
	store     store.Store
	cache     *ttlcache.Cache[string, json.RawMessage]
	publisher events.Publisher
	logger    *slog.Logger
}

// NewService creates a Service with a read cache of the given TTL.
// A ttl of zero falls back to DefaultTTL.
func NewService(s store.Store, p events.Publisher, logger *slog.Logger, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	cache := ttlcache.New(
		ttlcache.WithTTL[string, json.RawMessage](ttl),
		// Reads must not extend an entry's life; staleness is bounded by
		// the TTL from the moment the entry was written.
		ttlcache.WithDisableTouchOnHit[string, json.RawMessage](),
	)
	return &Service{
		store:     s,
		cache:     cache,
		publisher: p,
		logger:    logger,
	}
}

// Get returns the document for key, serving from cache when the entry is
// younger than the TTL. Concurrent misses may each hit the database; reads
// are cheap and idempotent so no single-flight de-duplication is done.
func (s *Service) Get(ctx context.Context, key string) (json.RawMessage, error) {
	if item := s.cache.Get(key); item != nil {
		return item.Value(), nil
	}

	doc, err := s.store.GetDocument(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document %q: %w", key, err)
	}

	s.cache.Set(key, doc.Data, ttlcache.DefaultTTL)
	return doc.Data, nil
}

// Save upserts the full document for key and unconditionally replaces the
// cache entry. There is no merge and no version check; a caller doing a
// partial edit is responsible for having read-then-merged first.
func (s *Service) Save(ctx context.Context, key string, data json.RawMessage) error {
	doc := &model.ConfigDocument{Key: key, Data: data}
	if err := s.store.SetDocument(ctx, doc); err != nil {
		return fmt.Errorf("save document %q: %w", key, err)
	}
	s.cache.Set(key, data, ttlcache.DefaultTTL)

	if err := s.publisher.Publish(ctx, events.TopicContentUpdated, events.ContentUpdated{
		Key:         key,
		LastUpdated: doc.LastUpdated,
	}); err != nil {
		s.logger.Warn("failed to publish content update", "key", key, "error", err)
	}
	return nil
}

// Section returns the top-level property name of the document for key, or
// nil when the document or the property is absent. A missing section is
// expected state for not-yet-configured pages, never an error.
func (s *Service) Section(ctx context.Context, key, name string) (json.RawMessage, error) {
	data, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var sections map[string]json.RawMessage
	if err := json.Unmarshal(data, &sections); err != nil {
		// Document is a JSON array or scalar; it has no sections.
		return nil, nil
	}
	return sections[name], nil
}

// UpdateSection sets document[name] = value and saves the whole document
// back. It returns false without error when the document does not exist:
// no row is created as a side effect. The read-modify-write is not atomic.
func (s *Service) UpdateSection(ctx context.Context, key, name string, value json.RawMessage) (bool, error) {
	data, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	sections := make(map[string]json.RawMessage)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &sections); err != nil {
			return false, fmt.Errorf("document %q is not a JSON object: %w", key, err)
		}
	}
	sections[name] = value

	merged, err := json.Marshal(sections)
	if err != nil {
		return false, fmt.Errorf("marshal document %q: %w", key, err)
	}
	if err := s.Save(ctx, key, merged); err != nil {
		return false, err
	}
	return true, nil
}

// All returns every stored document keyed by config key, always bypassing
// the per-key cache. Used by bulk-export and debug paths.
func (s *Service) All(ctx context.Context) (map[string]json.RawMessage, error) {
	docs, err := s.store.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	out := make(map[string]json.RawMessage, len(docs))
	for _, d := range docs {
		out[d.Key] = d.Data
	}
	return out, nil
}

// Invalidate drops the cache entry for a single key.
func (s *Service) Invalidate(key string) {
	s.cache.Delete(key)
}

// ClearCache drops every cache entry unconditionally.
func (s *Service) ClearCache() {
	s.cache.DeleteAll()
}
