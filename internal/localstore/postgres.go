package localstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresKV stores each key as one row of a small kv table. Values are whole
// serialized collections, so a plain upsert is all the write path needs.
type PostgresKV struct {
	pool *pgxpool.Pool
}

// NewPostgresKV connects to the database at url and ensures the kv table exists.
func NewPostgresKV(ctx context.Context, url string) (*PostgresKV, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("postgres kv: %w", err)
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS storefront_kv (
			key        text PRIMARY KEY,
			value      bytea NOT NULL,
			updated_at timestamptz NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres kv init: %w", err)
	}

	return &PostgresKV{pool: pool}, nil
}

// Get returns the value stored under key, or (nil, nil) when absent.
func (p *PostgresKV) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := p.pool.QueryRow(ctx, "SELECT value FROM storefront_kv WHERE key = $1", key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("postgres kv get: %w", err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (p *PostgresKV) Set(ctx context.Context, key string, value []byte) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO storefront_kv (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, key, value)
	if err != nil {
		return fmt.Errorf("postgres kv set: %w", err)
	}
	return nil
}

// Ping verifies the connection.
func (p *PostgresKV) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close releases the pool.
func (p *PostgresKV) Close() {
	p.pool.Close()
}
