package normalize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"github.com/sicoreai/NeMo-text-processing/internal/observe"
	"github.com/sicoreai/NeMo-text-processing/pkg/farstore"
	"github.com/sicoreai/NeMo-text-processing/pkg/grammar"
)

// RegistryConfig configures [BuildRegistry].
type RegistryConfig struct {
	// Directions selects which directions to build. Empty means both.
	Directions []Direction

	// Budget bounds each grammar assembly. The zero value is unbounded.
	Budget grammar.Budget

	// Store is an optional archive of compiled grammars. When set, builds
	// consult it before assembling and save fresh builds back into it.
	// Store failures degrade to a logged rebuild; they never fail the
	// registry.
	Store farstore.Store

	// Logger routes build logging. Defaults to slog.Default().
	Logger *slog.Logger
}

// Registry holds the compiled grammars the normalizer serves from, one per
// (language, direction). It is immutable once built and safe for unlocked
// concurrent use.
type Registry struct {
	grammars map[registryKey]*grammar.Compiled
}

type registryKey struct {
	language  string
	direction Direction
}

// BuildRegistry assembles every source for every requested direction and
// returns the resulting registry. Builds run in parallel, one goroutine
// per (source, direction). A source that declares no classes for a
// direction is skipped for that direction; any build failure aborts the
// whole registry, because a partially built grammar set would silently
// answer some requests with [ErrUnknownGrammar].
func BuildRegistry(ctx context.Context, cfg RegistryConfig, sources ...grammar.Source) (*Registry, error) {
	if len(sources) == 0 {
		return nil, errors.New("normalize: no grammar sources")
	}
	dirs := cfg.Directions
	if len(dirs) == 0 {
		dirs = grammar.Directions()
	}
	for _, d := range dirs {
		if !d.IsValid() {
			return nil, fmt.Errorf("normalize: invalid direction %q", string(d))
		}
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	met := observe.DefaultMetrics()

	var (
		mu       sync.Mutex
		grammars = make(map[registryKey]*grammar.Compiled)
	)
	eg, egCtx := errgroup.WithContext(ctx)
	for _, src := range sources {
		for _, dir := range dirs {
			if len(src.Classes(dir)) == 0 {
				continue
			}
			eg.Go(func() error {
				c, err := buildOne(egCtx, cfg, log, met, src, dir)
				if err != nil {
					return err
				}
				key := registryKey{c.Language, c.Direction}
				mu.Lock()
				defer mu.Unlock()
				if _, dup := grammars[key]; dup {
					return fmt.Errorf("normalize: duplicate grammar for %s/%s", key.language, key.direction)
				}
				grammars[key] = c
				return nil
			})
		}
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	met.GrammarsLoaded.Add(ctx, int64(len(grammars)))
	return &Registry{grammars: grammars}, nil
}

// buildOne produces one compiled grammar, consulting the archive store
// first when one is configured. The archive key includes the declaration
// fingerprint, so a stale archive is a plain miss and triggers a rebuild.
func buildOne(ctx context.Context, cfg RegistryConfig, log *slog.Logger, met *observe.Metrics, src grammar.Source, dir Direction) (*grammar.Compiled, error) {
	plan, err := grammar.PlanOf(src, dir)
	if err != nil {
		return nil, err
	}
	key := farstore.Key{Language: plan.Language, Direction: dir, Fingerprint: plan.Fingerprint()}
	log = log.With("language", plan.Language, "direction", string(dir))

	if cfg.Store != nil {
		c, err := cfg.Store.Load(ctx, key)
		switch {
		case err == nil:
			log.Info("grammar loaded from archive", "fingerprint", key.Fingerprint)
			return c, nil
		case !errors.Is(err, farstore.ErrNotFound):
			log.Warn("grammar archive load failed, rebuilding", "error", err)
		}
	}

	began := time.Now()
	c, err := grammar.Assemble(ctx, src, dir,
		grammar.WithBudget(cfg.Budget), grammar.WithLogger(log))
	attrs := metric.WithAttributes(
		observe.Attr("language", plan.Language),
		observe.Attr("direction", string(dir)),
	)
	if err != nil {
		met.BuildFailures.Add(ctx, 1, attrs)
		return nil, err
	}
	met.BuildDuration.Record(ctx, time.Since(began).Seconds(), attrs)

	if cfg.Store != nil {
		if err := cfg.Store.Save(ctx, key, c); err != nil {
			log.Warn("grammar archive save failed", "error", err)
		}
	}
	return c, nil
}

// Grammar returns the compiled grammar for a language and direction, or
// false when the registry holds none.
func (r *Registry) Grammar(language string, dir Direction) (*grammar.Compiled, bool) {
	c, ok := r.grammars[registryKey{language, dir}]
	return c, ok
}

// Languages returns the distinct language tags the registry covers,
// sorted.
func (r *Registry) Languages() []string {
	seen := make(map[string]bool, len(r.grammars))
	for k := range r.grammars {
		seen[k.language] = true
	}
	langs := make([]string, 0, len(seen))
	for l := range seen {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs
}
