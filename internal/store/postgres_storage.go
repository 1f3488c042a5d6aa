package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage keeps the document as a JSONB row keyed by the storage key.
type PostgresStorage struct {
	pool *pgxpool.Pool
	key  string
}

var _ Storage = (*PostgresStorage)(nil)

const createDocumentsTable = `
CREATE TABLE IF NOT EXISTS documents (
    key        TEXT PRIMARY KEY,
    body       JSONB NOT NULL,
    version    BIGINT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// NewPostgresStorage creates a PostgreSQL storage and makes sure its table exists.
func NewPostgresStorage(ctx context.Context, pool *pgxpool.Pool, key string) (*PostgresStorage, error) {
	if key == "" {
		key = Key
	}
	if _, err := pool.Exec(ctx, createDocumentsTable); err != nil {
		return nil, fmt.Errorf("creating documents table: %w", err)
	}
	return &PostgresStorage{pool: pool, key: key}, nil
}

// Load reads the row. A missing row is an empty snapshot.
func (p *PostgresStorage) Load(ctx context.Context) (Snapshot, error) {
	var (
		body    []byte
		version int64
	)
	err := p.pool.QueryRow(ctx,
		`SELECT body, version FROM documents WHERE key = $1`, p.key,
	).Scan(&body, &version)
	if errors.Is(err, pgx.ErrNoRows) {
		return Snapshot{}, nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("selecting document: %w", err)
	}
	return Snapshot{Body: body, Version: uint64(version)}, nil //nolint:gosec // versions are never negative
}

// CompareAndSwap inserts the first version or updates the row guarded by its version.
func (p *PostgresStorage) CompareAndSwap(ctx context.Context, expected uint64, body []byte) (uint64, error) {
	if expected == 0 {
		tag, err := p.pool.Exec(ctx,
			`INSERT INTO documents (key, body, version) VALUES ($1, $2, 1)
			 ON CONFLICT (key) DO NOTHING`,
			p.key, body,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting document: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return 0, ErrVersionConflict
		}
		return 1, nil
	}

	var version int64
	err := p.pool.QueryRow(ctx,
		`UPDATE documents SET body = $2, version = version + 1, updated_at = now()
		 WHERE key = $1 AND version = $3
		 RETURNING version`,
		p.key, body, int64(expected), //nolint:gosec // versions come from Load
	).Scan(&version)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrVersionConflict
	}
	if err != nil {
		return 0, fmt.Errorf("updating document: %w", err)
	}
	return uint64(version), nil //nolint:gosec // versions are never negative
}

// Ping pings the pool.
func (p *PostgresStorage) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close is a no-op; the pool is owned by the caller.
func (p *PostgresStorage) Close() error { return nil }

// Name returns "postgres".
func (p *PostgresStorage) Name() string { return "postgres" }
