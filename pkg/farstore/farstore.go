// Package farstore persists compiled grammar archives across processes.
//
// Grammar assembly is the expensive step of the pipeline, so deployments
// cache the compiled tagger/verbalizer pair and reload it on start instead
// of rebuilding. Archives are keyed by the fingerprint of the declarations
// that produced them: a grammar change rotates the key, so a stale archive
// is simply never found rather than ever being served.
//
// The interface is public so that external packages can supply alternative
// backends; [github.com/sicoreai/NeMo-text-processing/pkg/farstore/sqlite]
// provides a single-file embedded store and
// [github.com/sicoreai/NeMo-text-processing/pkg/farstore/postgres] a
// fleet-shared one. Every implementation must be safe for concurrent use.
package farstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/sicoreai/NeMo-text-processing/pkg/grammar"
)

// ErrNotFound reports that no archive is stored under a key. Callers treat
// it as a cache miss and rebuild; any other load error means the store
// itself is unhealthy.
var ErrNotFound = errors.New("farstore: archive not found")

// Key identifies one compiled grammar build.
type Key struct {
	// Language is the source's language tag.
	Language string

	// Direction is the compiled direction.
	Direction grammar.Direction

	// Fingerprint covers the class declarations and source version that
	// went into the build, as computed by [grammar.Plan.Fingerprint].
	Fingerprint uint64
}

// String renders the key in the form language/direction@fingerprint.
func (k Key) String() string {
	return fmt.Sprintf("%s/%s@%016x", k.Language, k.Direction, k.Fingerprint)
}

// Store is a cache of compiled grammar archives.
type Store interface {
	// Load returns the archive stored under key, or [ErrNotFound].
	Load(ctx context.Context, key Key) (*grammar.Compiled, error)

	// Save stores c under key, replacing any previous archive.
	Save(ctx context.Context, key Key, c *grammar.Compiled) error

	// Close releases the store's resources. The store is unusable
	// afterwards.
	Close() error
}
