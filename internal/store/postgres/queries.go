package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/photodit/photodit/internal/model"
)

// mediaColumns is the column list used for SELECT statements on the
// media_files table.
const mediaColumns = `id, filename, original_name, cdn_url, cdn_public_id,
	file_size, mime_type, folder, width, height, created_at`

// quoteColumns is the column list used for SELECT statements on the
// quote_requests table.
const quoteColumns = `id, name, email, service, file_options, message,
	file_url, cloud_link, status, created_at, updated_at`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func querySetDocument(ctx context.Context, db executor, d *model.ConfigDocument) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO json_configs (config_key, config_data, last_updated)
		VALUES ($1, $2, NOW())
		ON CONFLICT (config_key) DO UPDATE SET config_data = $2, last_updated = NOW()
		RETURNING last_updated`,
		d.Key, jsonbBytes(d.Data),
	).Scan(&d.LastUpdated)
}

func queryGetDocument(ctx context.Context, db executor, key string) (*model.ConfigDocument, error) {
	row := db.QueryRowContext(ctx, `
		SELECT config_key, config_data, last_updated
		FROM json_configs WHERE config_key = $1`, key)
	return scanDocument(row)
}

func queryListDocuments(ctx context.Context, db executor) ([]*model.ConfigDocument, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT config_key, config_data, last_updated
		FROM json_configs ORDER BY config_key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDocuments(rows)
}

func querySaveMediaFile(ctx context.Context, db executor, f *model.MediaFile) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO media_files (
			id, filename, original_name, cdn_url, cdn_public_id,
			file_size, mime_type, folder, width, height
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at`,
		f.ID,
		f.Filename,
		f.OriginalName,
		f.URL,
		f.PublicID,
		f.Size,
		f.MimeType,
		nullString(f.Folder),
		nullInt(f.Width),
		nullInt(f.Height),
	).Scan(&f.CreatedAt)
}

func queryGetMediaFile(ctx context.Context, db executor, publicID string) (*model.MediaFile, error) {
	row := db.QueryRowContext(ctx, `
		SELECT `+mediaColumns+` FROM media_files WHERE cdn_public_id = $1`, publicID)
	return scanMediaFile(row)
}

func queryListMediaFiles(ctx context.Context, db executor, folder string) ([]*model.MediaFile, error) {
	query := `SELECT ` + mediaColumns + ` FROM media_files`
	var args []any
	if folder != "" {
		query += ` WHERE folder = $1`
		args = append(args, folder)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMediaFiles(rows)
}

func queryDeleteMediaFile(ctx context.Context, db executor, publicID string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM media_files WHERE cdn_public_id = $1`, publicID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func queryCreateQuoteRequest(ctx context.Context, db executor, q *model.QuoteRequest) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO quote_requests (
			id, name, email, service, file_options, message,
			file_url, cloud_link, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`,
		q.ID,
		q.Name,
		q.Email,
		q.Service,
		jsonbBytes(q.FileOptions),
		nullString(q.Message),
		nullString(q.FileURL),
		nullString(q.CloudLink),
		string(q.Status),
	).Scan(&q.CreatedAt, &q.UpdatedAt)
}

func queryGetQuoteRequest(ctx context.Context, db executor, id string) (*model.QuoteRequest, error) {
	row := db.QueryRowContext(ctx, `
		SELECT `+quoteColumns+` FROM quote_requests WHERE id = $1`, id)
	return scanQuoteRequest(row)
}

func queryListQuoteRequests(ctx context.Context, db executor, status model.QuoteStatus) ([]*model.QuoteRequest, error) {
	query := `SELECT ` + quoteColumns + ` FROM quote_requests`
	var args []any
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanQuoteRequests(rows)
}

func queryUpdateQuoteStatus(ctx context.Context, db executor, id string, status model.QuoteStatus) (*model.QuoteRequest, error) {
	row := db.QueryRowContext(ctx, `
		UPDATE quote_requests
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+quoteColumns,
		id, string(status),
	)
	return scanQuoteRequest(row)
}
