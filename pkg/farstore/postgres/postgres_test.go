package postgres_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sicoreai/NeMo-text-processing/internal/grammartest"
	"github.com/sicoreai/NeMo-text-processing/pkg/farstore"
	"github.com/sicoreai/NeMo-text-processing/pkg/farstore/postgres"
	"github.com/sicoreai/NeMo-text-processing/pkg/grammar"
)

// testDSN returns the test database DSN from the environment, or skips
// the test if TEXTPROCESSING_TEST_POSTGRES_DSN is not set.
func testDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("TEXTPROCESSING_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEXTPROCESSING_TEST_POSTGRES_DSN not set — skipping PostgreSQL integration tests")
	}
	return dsn
}

// newTestStore creates a fresh [postgres.Store] over a clean table and
// closes it when the test finishes.
func newTestStore(t *testing.T) *postgres.Store {
	t.Helper()
	dsn := testDSN(t)
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	if _, err := pool.Exec(ctx, `DROP TABLE IF EXISTS grammar_archives`); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	store, err := postgres.NewStore(ctx, dsn)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func keyOf(c *grammar.Compiled) farstore.Key {
	return farstore.Key{Language: c.Language, Direction: c.Direction, Fingerprint: c.Fingerprint}
}

func TestStore_LoadMissing(t *testing.T) {
	s := newTestStore(t)

	key := farstore.Key{Language: "zz", Direction: grammar.TextToSpoken, Fingerprint: 42}
	if _, err := s.Load(context.Background(), key); !errors.Is(err, farstore.ErrNotFound) {
		t.Errorf("Load(missing) = %v, want ErrNotFound", err)
	}
}

func TestStore_SaveThenLoad(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := grammartest.Compile(t, grammar.TextToSpoken)
	if err := s.Save(ctx, keyOf(c), c); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load(ctx, keyOf(c))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Language != c.Language || got.Direction != c.Direction ||
		got.Version != c.Version || got.Fingerprint != c.Fingerprint {
		t.Errorf("loaded header %q/%s/%q/%d, want %q/%s/%q/%d",
			got.Language, got.Direction, got.Version, got.Fingerprint,
			c.Language, c.Direction, c.Version, c.Fingerprint)
	}
}

func TestStore_SaveOverwrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := grammartest.Compile(t, grammar.TextToSpoken)
	if err := s.Save(ctx, keyOf(c), c); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	if err := s.Save(ctx, keyOf(c), c); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	if _, err := s.Load(ctx, keyOf(c)); err != nil {
		t.Errorf("Load after overwrite: %v", err)
	}
}

func TestStore_StaleFingerprintIsAMiss(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := grammartest.Compile(t, grammar.TextToSpoken)
	if err := s.Save(ctx, keyOf(c), c); err != nil {
		t.Fatalf("Save: %v", err)
	}

	stale := keyOf(c)
	stale.Fingerprint++
	if _, err := s.Load(ctx, stale); !errors.Is(err, farstore.ErrNotFound) {
		t.Errorf("Load(stale fingerprint) = %v, want ErrNotFound", err)
	}
}
