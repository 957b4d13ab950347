package media

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"path"
	"strings"
	"testing"
	"time"

	"github.com/photodit/photodit/internal/events"
	"github.com/photodit/photodit/internal/model"
	"github.com/photodit/photodit/internal/store"
)

// fakeStorage records calls instead of talking to S3.
type fakeStorage struct {
	uploads    []string
	deletes    []string
	failDelete bool
	failUpload bool
}

func (f *fakeStorage) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	if f.failUpload {
		return "", errors.New("bucket unavailable")
	}
	f.uploads = append(f.uploads, key)
	return "https://cdn.example.com/" + key, nil
}

func (f *fakeStorage) Delete(ctx context.Context, key string) error {
	f.deletes = append(f.deletes, key)
	if f.failDelete {
		return errors.New("bucket unavailable")
	}
	return nil
}

// recordStore keeps media rows in memory; the other store methods are
// unused by the media service.
type recordStore struct {
	files map[string]*model.MediaFile
}

func newRecordStore() *recordStore {
	return &recordStore{files: make(map[string]*model.MediaFile)}
}

func (m *recordStore) SaveMediaFile(ctx context.Context, file *model.MediaFile) error {
	file.CreatedAt = time.Now()
	m.files[file.PublicID] = file
	return nil
}

func (m *recordStore) GetMediaFile(ctx context.Context, publicID string) (*model.MediaFile, error) {
	f, ok := m.files[publicID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return f, nil
}

func (m *recordStore) ListMediaFiles(ctx context.Context, folder string) ([]*model.MediaFile, error) {
	var files []*model.MediaFile
	for _, f := range m.files {
		if folder == "" || f.Folder == folder {
			files = append(files, f)
		}
	}
	return files, nil
}

func (m *recordStore) DeleteMediaFile(ctx context.Context, publicID string) error {
	if _, ok := m.files[publicID]; !ok {
		return sql.ErrNoRows
	}
	delete(m.files, publicID)
	return nil
}

var errUnused = errors.New("unused")

func (m *recordStore) SetDocument(ctx context.Context, doc *model.ConfigDocument) error {
	return errUnused
}

func (m *recordStore) GetDocument(ctx context.Context, key string) (*model.ConfigDocument, error) {
	return nil, errUnused
}

func (m *recordStore) ListDocuments(ctx context.Context) ([]*model.ConfigDocument, error) {
	return nil, errUnused
}

func (m *recordStore) CreateQuoteRequest(ctx context.Context, quote *model.QuoteRequest) error {
	return errUnused
}

func (m *recordStore) GetQuoteRequest(ctx context.Context, id string) (*model.QuoteRequest, error) {
	return nil, errUnused
}

func (m *recordStore) ListQuoteRequests(ctx context.Context, status model.QuoteStatus) ([]*model.QuoteRequest, error) {
	return nil, errUnused
}

func (m *recordStore) UpdateQuoteStatus(ctx context.Context, id string, status model.QuoteStatus) (*model.QuoteRequest, error) {
	return nil, errUnused
}

func (m *recordStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(m)
}

func (m *recordStore) Close() error { return nil }

func newTestService(rs *recordStore, fs *fakeStorage) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(rs, fs, &events.NoopPublisher{}, logger)
}

func TestUpload(t *testing.T) {
	rs := newRecordStore()
	fs := &fakeStorage{}
	svc := newTestService(rs, fs)

	file, err := svc.Upload(context.Background(), UploadInput{
		Body:         strings.NewReader("jpeg bytes"),
		OriginalName: "Studio Shot (Final).JPG",
		ContentType:  "image/jpeg",
		Size:         10,
		Folder:       "portfolio",
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if !strings.HasPrefix(file.ID, "img-") {
		t.Errorf("got id=%q", file.ID)
	}
	if !strings.HasPrefix(file.PublicID, "portfolio/studio-shot-final-") {
		t.Errorf("got public_id=%q", file.PublicID)
	}
	if !strings.HasSuffix(file.PublicID, ".JPG") {
		t.Errorf("extension not preserved: %q", file.PublicID)
	}
	if file.URL != "https://cdn.example.com/"+file.PublicID {
		t.Errorf("got url=%q", file.URL)
	}
	if file.Filename != path.Base(file.PublicID) {
		t.Errorf("got filename=%q for public_id=%q", file.Filename, file.PublicID)
	}
	if len(fs.uploads) != 1 || fs.uploads[0] != file.PublicID {
		t.Errorf("storage uploads = %v", fs.uploads)
	}
	if _, ok := rs.files[file.PublicID]; !ok {
		t.Error("record not saved")
	}
}

func TestUpload_StorageFailure(t *testing.T) {
	rs := newRecordStore()
	fs := &fakeStorage{failUpload: true}
	svc := newTestService(rs, fs)

	_, err := svc.Upload(context.Background(), UploadInput{
		Body:         strings.NewReader("x"),
		OriginalName: "a.jpg",
		ContentType:  "image/jpeg",
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(rs.files) != 0 {
		t.Fatal("no record should be saved when the object upload fails")
	}
}

func TestUpload_Replace(t *testing.T) {
	rs := newRecordStore()
	fs := &fakeStorage{}
	svc := newTestService(rs, fs)
	ctx := context.Background()

	old, err := svc.Upload(ctx, UploadInput{
		Body:         strings.NewReader("v1"),
		OriginalName: "hero.jpg",
		ContentType:  "image/jpeg",
		Folder:       "photodit",
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	replacement, err := svc.Upload(ctx, UploadInput{
		Body:            strings.NewReader("v2"),
		OriginalName:    "hero.jpg",
		ContentType:     "image/jpeg",
		Folder:          "photodit",
		ReplacePublicID: old.PublicID,
	})
	if err != nil {
		t.Fatalf("replace upload: %v", err)
	}

	if len(fs.deletes) != 1 || fs.deletes[0] != old.PublicID {
		t.Errorf("storage deletes = %v", fs.deletes)
	}
	if _, ok := rs.files[old.PublicID]; ok {
		t.Error("old record should be removed")
	}
	if _, ok := rs.files[replacement.PublicID]; !ok {
		t.Error("replacement record not saved")
	}
}

func TestUpload_ReplaceDeleteFailureDoesNotBlock(t *testing.T) {
	rs := newRecordStore()
	fs := &fakeStorage{failDelete: true}
	svc := newTestService(rs, fs)

	file, err := svc.Upload(context.Background(), UploadInput{
		Body:            strings.NewReader("v2"),
		OriginalName:    "hero.jpg",
		ContentType:     "image/jpeg",
		ReplacePublicID: "photodit/old-asset.jpg",
	})
	if err != nil {
		t.Fatalf("upload should succeed despite CDN delete failure: %v", err)
	}
	if _, ok := rs.files[file.PublicID]; !ok {
		t.Error("record not saved")
	}
}

func TestDelete(t *testing.T) {
	rs := newRecordStore()
	fs := &fakeStorage{}
	svc := newTestService(rs, fs)
	ctx := context.Background()

	file, err := svc.Upload(ctx, UploadInput{
		Body:         strings.NewReader("x"),
		OriginalName: "a.jpg",
		ContentType:  "image/jpeg",
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if err := svc.Delete(ctx, file.PublicID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(fs.deletes) != 1 || fs.deletes[0] != file.PublicID {
		t.Errorf("storage deletes = %v", fs.deletes)
	}
	if _, ok := rs.files[file.PublicID]; ok {
		t.Error("record should be removed")
	}
}

func TestDelete_StorageFailureTolerated(t *testing.T) {
	rs := newRecordStore()
	fs := &fakeStorage{failDelete: true}
	svc := newTestService(rs, fs)
	ctx := context.Background()

	file, err := svc.Upload(ctx, UploadInput{
		Body:         strings.NewReader("x"),
		OriginalName: "a.jpg",
		ContentType:  "image/jpeg",
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	// The CDN object lingers but the record goes away.
	if err := svc.Delete(ctx, file.PublicID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := rs.files[file.PublicID]; ok {
		t.Error("record should be removed")
	}
}

func TestDelete_MissingRecord(t *testing.T) {
	svc := newTestService(newRecordStore(), &fakeStorage{})

	err := svc.Delete(context.Background(), "nonexistent")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestSanitize(t *testing.T) {
	for _, tc := range []struct {
		input, want string
	}{
		{"hello", "hello"},
		{"Hello World", "hello-world"},
		{"Studio Shot (Final)", "studio-shot-final"},
		{"__weird--name__", "weird-name"},
		{"????", ""},
		{"ABC123", "abc123"},
	} {
		if got := sanitize(tc.input); got != tc.want {
			t.Errorf("sanitize(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestObjectKey(t *testing.T) {
	key, err := objectKey("gallery/", "My Photo.png")
	if err != nil {
		t.Fatalf("objectKey: %v", err)
	}
	if !strings.HasPrefix(key, "gallery/my-photo-") || !strings.HasSuffix(key, ".png") {
		t.Fatalf("got key=%q", key)
	}

	// Nameless or fully-stripped names fall back to "file".
	key, err = objectKey("", "???.jpg")
	if err != nil {
		t.Fatalf("objectKey: %v", err)
	}
	if !strings.HasPrefix(key, "file-") {
		t.Fatalf("got key=%q", key)
	}

	// Two keys for the same name never collide.
	a, _ := objectKey("f", "a.jpg")
	b, _ := objectKey("f", "a.jpg")
	if a == b {
		t.Fatalf("expected unique keys, got %q twice", a)
	}
}
