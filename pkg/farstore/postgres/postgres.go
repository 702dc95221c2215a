// Package postgres provides a fleet-shared [farstore.Store]: hosts
// normalizing with the same grammar declarations reuse one build instead
// of each assembling their own.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sicoreai/NeMo-text-processing/pkg/farstore"
	"github.com/sicoreai/NeMo-text-processing/pkg/grammar"
)

// Compile-time interface check.
var _ farstore.Store = (*Store)(nil)

// The fingerprint is stored as zero-padded hex: BIGINT is signed and the
// upper half of the uint64 range would not round-trip.
const ddlGrammarArchives = `
CREATE TABLE IF NOT EXISTS grammar_archives (
    language    TEXT        NOT NULL,
    direction   TEXT        NOT NULL,
    fingerprint TEXT        NOT NULL,
    archive     BYTEA       NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (language, direction, fingerprint)
);`

// Store is a PostgreSQL-backed grammar archive over a single
// [pgxpool.Pool]. All operations are safe for concurrent use.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore establishes a connection pool to the database at dsn and runs
// [Migrate] to ensure the archive table exists.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres store: parse dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres store: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres store: ping: %w", err)
	}
	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres store: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Migrate ensures the archive table exists.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, ddlGrammarArchives); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Load fetches and decodes the archive under key.
func (s *Store) Load(ctx context.Context, key farstore.Key) (*grammar.Compiled, error) {
	const q = `
		SELECT archive FROM grammar_archives
		WHERE language = $1 AND direction = $2 AND fingerprint = $3`

	var blob []byte
	err := s.pool.QueryRow(ctx, q,
		key.Language, string(key.Direction), fingerprintHex(key)).Scan(&blob)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return nil, fmt.Errorf("postgres store: %s: %w", key, farstore.ErrNotFound)
	case err != nil:
		return nil, fmt.Errorf("postgres store: load %s: %w", key, err)
	}

	c, err := grammar.UnmarshalCompiled(blob)
	if err != nil {
		return nil, fmt.Errorf("postgres store: load %s: %w", key, err)
	}
	return c, nil
}

// Save encodes c and upserts it under key.
func (s *Store) Save(ctx context.Context, key farstore.Key, c *grammar.Compiled) error {
	blob, err := c.MarshalBinary()
	if err != nil {
		return fmt.Errorf("postgres store: save %s: %w", key, err)
	}

	const q = `
		INSERT INTO grammar_archives (language, direction, fingerprint, archive, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (language, direction, fingerprint) DO UPDATE SET
		    archive    = EXCLUDED.archive,
		    updated_at = now()`
	if _, err := s.pool.Exec(ctx, q,
		key.Language, string(key.Direction), fingerprintHex(key), blob); err != nil {
		return fmt.Errorf("postgres store: save %s: %w", key, err)
	}
	return nil
}

// Close releases all connections held by the underlying pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func fingerprintHex(key farstore.Key) string {
	return fmt.Sprintf("%016x", key.Fingerprint)
}
