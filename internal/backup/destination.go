package backup

import (
	"bytes"
	"context"

	"github.com/photodit/photodit/internal/media"
)

// StorageDestination writes the export to a fixed key in the media object
// store, reusing its client rather than opening a second S3 session.
type StorageDestination struct {
	storage media.Storage
	key     string
}

// NewStorageDestination creates a destination that writes to key in the
// given object store.
func NewStorageDestination(storage media.Storage, key string) *StorageDestination {
	return &StorageDestination{storage: storage, key: key}
}

// Write uploads the JSONL payload under the configured key.
func (d *StorageDestination) Write(ctx context.Context, data []byte) error {
	_, err := d.storage.Upload(ctx, d.key, bytes.NewReader(data), "application/x-ndjson")
	return err
}
