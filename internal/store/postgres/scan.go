package postgres

import (
	"database/sql"
	"encoding/json"

	"github.com/photodit/photodit/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanDocument scans a single json_configs row into a model.ConfigDocument.
func scanDocument(row scannable) (*model.ConfigDocument, error) {
	var d model.ConfigDocument
	var data []byte
	if err := row.Scan(&d.Key, &data, &d.LastUpdated); err != nil {
		return nil, err
	}
	if len(data) > 0 {
		d.Data = json.RawMessage(data)
	}
	return &d, nil
}

// scanDocuments scans multiple rows into a slice of ConfigDocument pointers.
func scanDocuments(rows *sql.Rows) ([]*model.ConfigDocument, error) {
	var docs []*model.ConfigDocument
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// scanMediaFile scans a single media_files row.
// The row must contain columns in the order defined by mediaColumns.
func scanMediaFile(row scannable) (*model.MediaFile, error) {
	var f model.MediaFile
	var (
		folder sql.NullString
		width  sql.NullInt64
		height sql.NullInt64
	)
	err := row.Scan(
		&f.ID,
		&f.Filename,
		&f.OriginalName,
		&f.URL,
		&f.PublicID,
		&f.Size,
		&f.MimeType,
		&folder,
		&width,
		&height,
		&f.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	f.Folder = folder.String
	f.Width = int(width.Int64)
	f.Height = int(height.Int64)
	return &f, nil
}

// scanMediaFiles scans multiple rows into a slice of MediaFile pointers.
func scanMediaFiles(rows *sql.Rows) ([]*model.MediaFile, error) {
	var files []*model.MediaFile
	for rows.Next() {
		f, err := scanMediaFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return files, nil
}

// scanQuoteRequest scans a single quote_requests row.
// The row must contain columns in the order defined by quoteColumns.
func scanQuoteRequest(row scannable) (*model.QuoteRequest, error) {
	var q model.QuoteRequest
	var (
		fileOptions []byte
		message     sql.NullString
		fileURL     sql.NullString
		cloudLink   sql.NullString
	)
	err := row.Scan(
		&q.ID,
		&q.Name,
		&q.Email,
		&q.Service,
		&fileOptions,
		&message,
		&fileURL,
		&cloudLink,
		&q.Status,
		&q.CreatedAt,
		&q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(fileOptions) > 0 {
		q.FileOptions = json.RawMessage(fileOptions)
	}
	q.Message = message.String
	q.FileURL = fileURL.String
	q.CloudLink = cloudLink.String
	return &q, nil
}

// scanQuoteRequests scans multiple rows into a slice of QuoteRequest pointers.
func scanQuoteRequests(rows *sql.Rows) ([]*model.QuoteRequest, error) {
	var quotes []*model.QuoteRequest
	for rows.Next() {
		q, err := scanQuoteRequest(rows)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return quotes, nil
}

// nullString converts a string to sql.NullString; empty string is null.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// nullInt converts an int to sql.NullInt64; zero is null.
func nullInt(n int) sql.NullInt64 {
	if n == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(n), Valid: true}
}

// jsonbBytes converts json.RawMessage to a []byte suitable for JSONB columns.
func jsonbBytes(m json.RawMessage) []byte {
	if len(m) == 0 {
		return nil
	}
	return []byte(m)
}
