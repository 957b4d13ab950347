// Package postgres implements the store.Store interface backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/photodit/photodit/internal/model"
	"github.com/photodit/photodit/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements store.Store backed by a PostgreSQL database.
type PostgresStore struct {
	db *sql.DB
}

// Compile-time check that PostgresStore implements store.Store.
var _ store.Store = (*PostgresStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) SetDocument(ctx context.Context, doc *model.ConfigDocument) error {
	return querySetDocument(ctx, s.db, doc)
}

func (s *PostgresStore) GetDocument(ctx context.Context, key string) (*model.ConfigDocument, error) {
	return queryGetDocument(ctx, s.db, key)
}

func (s *PostgresStore) ListDocuments(ctx context.Context) ([]*model.ConfigDocument, error) {
	return queryListDocuments(ctx, s.db)
}

func (s *PostgresStore) SaveMediaFile(ctx context.Context, file *model.MediaFile) error {
	return querySaveMediaFile(ctx, s.db, file)
}

func (s *PostgresStore) GetMediaFile(ctx context.Context, publicID string) (*model.MediaFile, error) {
	return queryGetMediaFile(ctx, s.db, publicID)
}

func (s *PostgresStore) ListMediaFiles(ctx context.Context, folder string) ([]*model.MediaFile, error) {
	return queryListMediaFiles(ctx, s.db, folder)
}

func (s *PostgresStore) DeleteMediaFile(ctx context.Context, publicID string) error {
	return queryDeleteMediaFile(ctx, s.db, publicID)
}

func (s *PostgresStore) CreateQuoteRequest(ctx context.Context, quote *model.QuoteRequest) error {
	return queryCreateQuoteRequest(ctx, s.db, quote)
}

func (s *PostgresStore) GetQuoteRequest(ctx context.Context, id string) (*model.QuoteRequest, error) {
	return queryGetQuoteRequest(ctx, s.db, id)
}

func (s *PostgresStore) ListQuoteRequests(ctx context.Context, status model.QuoteStatus) ([]*model.QuoteRequest, error) {
	return queryListQuoteRequests(ctx, s.db, status)
}

func (s *PostgresStore) UpdateQuoteStatus(ctx context.Context, id string, status model.QuoteStatus) (*model.QuoteRequest, error) {
	return queryUpdateQuoteStatus(ctx, s.db, id, status)
}

// RunInTransaction begins a database transaction, creates a txStore that
// delegates to it, calls fn, and commits on success or rolls back on error.
func (s *PostgresStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txS := &txStore{tx: tx}
	if err := fn(txS); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txStore implements store.Store using a *sql.Tx.
type txStore struct {
	tx *sql.Tx
}

// Compile-time check that txStore implements store.Store.
var _ store.Store = (*txStore)(nil)

func (s *txStore) SetDocument(ctx context.Context, doc *model.ConfigDocument) error {
	return querySetDocument(ctx, s.tx, doc)
}

func (s *txStore) GetDocument(ctx context.Context, key string) (*model.ConfigDocument, error) {
	return queryGetDocument(ctx, s.tx, key)
}

func (s *txStore) ListDocuments(ctx context.Context) ([]*model.ConfigDocument, error) {
	return queryListDocuments(ctx, s.tx)
}

func (s *txStore) SaveMediaFile(ctx context.Context, file *model.MediaFile) error {
	return querySaveMediaFile(ctx, s.tx, file)
}

func (s *txStore) GetMediaFile(ctx context.Context, publicID string) (*model.MediaFile, error) {
	return queryGetMediaFile(ctx, s.tx, publicID)
}

func (s *txStore) ListMediaFiles(ctx context.Context, folder string) ([]*model.MediaFile, error) {
	return queryListMediaFiles(ctx, s.tx, folder)
}

func (s *txStore) DeleteMediaFile(ctx context.Context, publicID string) error {
	return queryDeleteMediaFile(ctx, s.tx, publicID)
}

func (s *txStore) CreateQuoteRequest(ctx context.Context, quote *model.QuoteRequest) error {
	return queryCreateQuoteRequest(ctx, s.tx, quote)
}

func (s *txStore) GetQuoteRequest(ctx context.Context, id string) (*model.QuoteRequest, error) {
	return queryGetQuoteRequest(ctx, s.tx, id)
}

func (s *txStore) ListQuoteRequests(ctx context.Context, status model.QuoteStatus) ([]*model.QuoteRequest, error) {
	return queryListQuoteRequests(ctx, s.tx, status)
}

func (s *txStore) UpdateQuoteStatus(ctx context.Context, id string, status model.QuoteStatus) (*model.QuoteRequest, error) {
	return queryUpdateQuoteStatus(ctx, s.tx, id, status)
}

// RunInTransaction on a txStore reuses the existing transaction (no nesting).
func (s *txStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(s)
}

// Close is a no-op for a transaction store; the parent store owns the connection.
func (s *txStore) Close() error {
	return nil
}
