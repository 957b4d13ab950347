// Package media implements the upload pipeline: binaries go to the object
// store, bookkeeping rows go to the relational store. The two are not
// transactionally linked; the record is the source of truth for what the
// site references, orphaned CDN objects are an accepted cost.
package media

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/photodit/photodit/internal/events"
	"github.com/photodit/photodit/internal/idgen"
	"github.com/photodit/photodit/internal/model"
	"github.com/photodit/photodit/internal/store"
)

// Service coordinates uploads and deletions across the object store and
// the media_files table.
type Service struct {
	store     store.Store
	storage   Storage
	publisher events.Publisher
	logger    *slog.Logger
}

// NewService returns a media Service.
func NewService(s store.Store, storage Storage, p events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		store:     s,
		storage:   storage,
		publisher: p,
		logger:    logger,
	}
}

// UploadInput describes one incoming file.
type UploadInput struct {
	Body         io.Reader
	OriginalName string
	ContentType  string
	Size         int64
	Folder       string
	// ReplacePublicID, when set, identifies a prior asset to remove. Its
	// removal is best-effort: a failed CDN delete logs a warning and never
	// blocks the new upload.
	ReplacePublicID string
}

// Upload pushes the binary to the object store and records a MediaFile.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*model.MediaFile, error) {
	if in.ReplacePublicID != "" {
		if err := s.storage.Delete(ctx, in.ReplacePublicID); err != nil {
			s.logger.Warn("failed to delete replaced asset", "public_id", in.ReplacePublicID, "error", err)
		}
	}

	publicID, err := objectKey(in.Folder, in.OriginalName)
	if err != nil {
		return nil, err
	}

	url, err := s.storage.Upload(ctx, publicID, in.Body, in.ContentType)
	if err != nil {
		return nil, fmt.Errorf("upload %q: %w", in.OriginalName, err)
	}

	id, err := idgen.Generate(idgen.MediaPrefix)
	if err != nil {
		return nil, err
	}
	file := &model.MediaFile{
		ID:           id,
		Filename:     path.Base(publicID),
		OriginalName: in.OriginalName,
		URL:          url,
		PublicID:     publicID,
		Size:         in.Size,
		MimeType:     in.ContentType,
		Folder:       in.Folder,
	}

	// Replacing an asset swaps its bookkeeping row atomically; the CDN
	// calls above stay outside the transaction.
	err = s.store.RunInTransaction(ctx, func(tx store.Store) error {
		if in.ReplacePublicID != "" {
			if err := tx.DeleteMediaFile(ctx, in.ReplacePublicID); err != nil && !errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("delete replaced record: %w", err)
			}
		}
		return tx.SaveMediaFile(ctx, file)
	})
	if err != nil {
		return nil, fmt.Errorf("save media record: %w", err)
	}

	if err := s.publisher.Publish(ctx, events.TopicMediaUploaded, events.MediaUploaded{File: file}); err != nil {
		s.logger.Warn("failed to publish media upload", "public_id", publicID, "error", err)
	}
	return file, nil
}

// Delete removes the bookkeeping row for publicID and, best-effort, the
// CDN object itself. A failed CDN delete is logged and does not fail the
// call; a missing row surfaces sql.ErrNoRows.
func (s *Service) Delete(ctx context.Context, publicID string) error {
	if err := s.storage.Delete(ctx, publicID); err != nil {
		s.logger.Warn("failed to delete CDN asset", "public_id", publicID, "error", err)
	}

	if err := s.store.DeleteMediaFile(ctx, publicID); err != nil {
		return err
	}

	if err := s.publisher.Publish(ctx, events.TopicMediaDeleted, events.MediaDeleted{PublicID: publicID}); err != nil {
		s.logger.Warn("failed to publish media delete", "public_id", publicID, "error", err)
	}
	return nil
}

// List returns media records, optionally filtered by folder.
func (s *Service) List(ctx context.Context, folder string) ([]*model.MediaFile, error) {
	return s.store.ListMediaFiles(ctx, folder)
}

// objectKey builds a unique object key from the folder and the sanitized
// original filename, e.g. "portfolio/studio-shot-a1B2c3D4e5.jpg".
func objectKey(folder, originalName string) (string, error) {
	suffix, err := idgen.Generate("")
	if err != nil {
		return "", err
	}

	ext := path.Ext(originalName)
	base := strings.TrimSuffix(path.Base(originalName), ext)
	base = sanitize(base)
	if base == "" {
		base = "file"
	}

	key := base + "-" + suffix + ext
	if folder != "" {
		key = strings.Trim(folder, "/") + "/" + key
	}
	return key, nil
}

// sanitize lowercases the name and collapses anything outside [a-z0-9-]
// into single dashes.
func sanitize(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
