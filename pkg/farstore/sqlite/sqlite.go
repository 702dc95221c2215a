// Package sqlite provides a single-file [farstore.Store] for hosts that
// keep their grammar archives local. The database is created on open;
// concurrent stores may share one file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/sicoreai/NeMo-text-processing/pkg/farstore"
	"github.com/sicoreai/NeMo-text-processing/pkg/grammar"
)

// Compile-time interface check.
var _ farstore.Store = (*Store)(nil)

// The fingerprint is stored as zero-padded hex: SQLite integers are
// signed and the upper half of the uint64 range would not round-trip.
const ddlArchives = `
CREATE TABLE IF NOT EXISTS grammar_archives (
    language    TEXT      NOT NULL,
    direction   TEXT      NOT NULL,
    fingerprint TEXT      NOT NULL,
    archive     BLOB      NOT NULL,
    updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (language, direction, fingerprint)
);`

// Store is a SQLite-backed grammar archive. All operations are safe for
// concurrent use.
type Store struct {
	db *sql.DB
}

// Open opens or creates the archive database at path and ensures the
// schema exists.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite store: ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, ddlArchives); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite store: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Load fetches and decodes the archive under key.
func (s *Store) Load(ctx context.Context, key farstore.Key) (*grammar.Compiled, error) {
	const q = `
		SELECT archive FROM grammar_archives
		WHERE language = ? AND direction = ? AND fingerprint = ?`

	var blob []byte
	err := s.db.QueryRowContext(ctx, q,
		key.Language, string(key.Direction), fingerprintHex(key)).Scan(&blob)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("sqlite store: %s: %w", key, farstore.ErrNotFound)
	case err != nil:
		return nil, fmt.Errorf("sqlite store: load %s: %w", key, err)
	}

	c, err := grammar.UnmarshalCompiled(blob)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: load %s: %w", key, err)
	}
	return c, nil
}

// Save encodes c and upserts it under key.
func (s *Store) Save(ctx context.Context, key farstore.Key, c *grammar.Compiled) error {
	blob, err := c.MarshalBinary()
	if err != nil {
		return fmt.Errorf("sqlite store: save %s: %w", key, err)
	}

	const q = `
		INSERT INTO grammar_archives (language, direction, fingerprint, archive, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (language, direction, fingerprint) DO UPDATE SET
		    archive    = EXCLUDED.archive,
		    updated_at = CURRENT_TIMESTAMP`
	if _, err := s.db.ExecContext(ctx, q,
		key.Language, string(key.Direction), fingerprintHex(key), blob); err != nil {
		return fmt.Errorf("sqlite store: save %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

func fingerprintHex(key farstore.Key) string {
	return fmt.Sprintf("%016x", key.Fingerprint)
}
