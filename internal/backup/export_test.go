package backup

import (
	"bufio"
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/photodit/photodit/internal/model"
	"github.com/photodit/photodit/internal/store"
)

// exportStore serves fixed documents and quotes for export tests.
type exportStore struct {
	docs   []*model.ConfigDocument
	quotes []*model.QuoteRequest
}

func (m *exportStore) ListDocuments(ctx context.Context) ([]*model.ConfigDocument, error) {
	return m.docs, nil
}

func (m *exportStore) ListQuoteRequests(ctx context.Context, status model.QuoteStatus) ([]*model.QuoteRequest, error) {
	return m.quotes, nil
}

func (m *exportStore) SetDocument(ctx context.Context, doc *model.ConfigDocument) error {
	return errors.New("unused")
}

func (m *exportStore) GetDocument(ctx context.Context, key string) (*model.ConfigDocument, error) {
	return nil, sql.ErrNoRows
}

func (m *exportStore) SaveMediaFile(ctx context.Context, file *model.MediaFile) error {
	return errors.New("unused")
}

func (m *exportStore) GetMediaFile(ctx context.Context, publicID string) (*model.MediaFile, error) {
	return nil, sql.ErrNoRows
}

func (m *exportStore) ListMediaFiles(ctx context.Context, folder string) ([]*model.MediaFile, error) {
	return nil, errors.New("unused")
}

func (m *exportStore) DeleteMediaFile(ctx context.Context, publicID string) error {
	return errors.New("unused")
}

func (m *exportStore) CreateQuoteRequest(ctx context.Context, quote *model.QuoteRequest) error {
	return errors.New("unused")
}

func (m *exportStore) GetQuoteRequest(ctx context.Context, id string) (*model.QuoteRequest, error) {
	return nil, sql.ErrNoRows
}

func (m *exportStore) UpdateQuoteStatus(ctx context.Context, id string, status model.QuoteStatus) (*model.QuoteRequest, error) {
	return nil, sql.ErrNoRows
}

func (m *exportStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(m)
}

func (m *exportStore) Close() error { return nil }

func TestExportJSONL(t *testing.T) {
	now := time.Now().UTC()
	ms := &exportStore{
		docs: []*model.ConfigDocument{
			{Key: "home", Data: json.RawMessage(`{"v":1}`), LastUpdated: now},
			{Key: "about", Data: json.RawMessage(`{"v":2}`), LastUpdated: now},
		},
		quotes: []*model.QuoteRequest{
			{ID: "qr-a", Name: "A", Email: "a@example.com", Service: "masking", Status: model.QuoteStatusNew},
		},
	}

	var buf bytes.Buffer
	if err := ExportJSONL(context.Background(), ms, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}

	var kinds []string
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var l struct {
			Kind     string                `json:"kind"`
			Document *model.ConfigDocument `json:"document"`
			Quote    *model.QuoteRequest   `json:"quote"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &l); err != nil {
			t.Fatalf("line is not valid JSON: %v", err)
		}
		kinds = append(kinds, l.Kind)
		switch l.Kind {
		case "config":
			if l.Document == nil || l.Quote != nil {
				t.Fatalf("config line carries wrong fields: %s", scanner.Text())
			}
		case "quote":
			if l.Quote == nil || l.Document != nil {
				t.Fatalf("quote line carries wrong fields: %s", scanner.Text())
			}
			if l.Quote.ID != "qr-a" {
				t.Fatalf("got quote id=%q", l.Quote.ID)
			}
		default:
			t.Fatalf("unknown kind %q", l.Kind)
		}
	}
	if strings.Join(kinds, ",") != "config,config,quote" {
		t.Fatalf("got kinds %v", kinds)
	}
}

func TestExportJSONL_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportJSONL(context.Background(), &exportStore{}, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected empty output, got %q", buf.String())
	}
}

// memDestination collects writes for scheduler tests.
type memDestination struct {
	writes chan []byte
}

func (d *memDestination) Write(ctx context.Context, data []byte) error {
	d.writes <- data
	return nil
}

func TestSchedulerRunsImmediately(t *testing.T) {
	ms := &exportStore{
		docs: []*model.ConfigDocument{{Key: "home", Data: json.RawMessage(`{}`)}},
	}
	dest := &memDestination{writes: make(chan []byte, 1)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	sched := NewScheduler(ms, []Destination{dest}, time.Hour, logger)
	sched.Start()
	defer sched.Stop()

	select {
	case data := <-dest.writes:
		if !bytes.Contains(data, []byte(`"kind":"config"`)) {
			t.Fatalf("got %s", data)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for initial export")
	}
}

func TestSchedulerStop(t *testing.T) {
	dest := &memDestination{writes: make(chan []byte, 16)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	sched := NewScheduler(&exportStore{}, []Destination{dest}, 10*time.Millisecond, logger)
	sched.Start()
	time.Sleep(35 * time.Millisecond)
	sched.Stop()

	// No further exports after Stop returns.
	n := len(dest.writes)
	time.Sleep(30 * time.Millisecond)
	if len(dest.writes) != n {
		t.Fatalf("exports continued after Stop: %d -> %d", n, len(dest.writes))
	}
}
