package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/prociv-leini/logbook/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgDocStore is the Postgres implementation of DocStore.
// Documents live in the app_state table: one jsonb row per key.
type pgDocStore struct {
	db db
}

// NewPgDocStore constructs a DocStore backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewPgDocStore(db db) DocStore {
	return &pgDocStore{db: db}
}

// Get returns the raw jsonb document stored under key.
func (s *pgDocStore) Get(ctx context.Context, key string) ([]byte, error) {
	const q = `SELECT doc FROM app_state WHERE key = @key`

	var doc []byte
	err := s.db.QueryRow(ctx, q, pgx.NamedArgs{"key": key}).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("store.pgDocStore.Get %q: %w", key, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("store.pgDocStore.Get %q: %w", key, err)
	}
	return doc, nil
}

// Put upserts the document stored under key.
func (s *pgDocStore) Put(ctx context.Context, key string, doc []byte) error {
	const q = `
		INSERT INTO app_state (key, doc)
		VALUES (@key, @doc)
		ON CONFLICT (key) DO UPDATE
		SET doc = EXCLUDED.doc, updated_at = now()`

	_, err := s.db.Exec(ctx, q, pgx.NamedArgs{"key": key, "doc": doc})
	if err != nil {
		return fmt.Errorf("store.pgDocStore.Put %q: %w", key, err)
	}
	return nil
}

// DeleteAll removes every stored document.
func (s *pgDocStore) DeleteAll(ctx context.Context) error {
	const q = `DELETE FROM app_state`

	if _, err := s.db.Exec(ctx, q); err != nil {
		return fmt.Errorf("store.pgDocStore.DeleteAll: %w", err)
	}
	return nil
}
