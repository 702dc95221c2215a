// Package app wires the text processing subsystems into a running engine.
//
// The App struct owns the full lifecycle: New connects the grammar archive
// store, assembles every enabled grammar into a registry, and constructs
// the normalizer facade. Shutdown tears everything down in order.
//
// For testing, inject mock implementations via functional options
// (WithStore, WithLogger, etc.). When an option is not provided, New
// creates real implementations from the config.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/sicoreai/NeMo-text-processing/internal/config"
	"github.com/sicoreai/NeMo-text-processing/internal/observe"
	"github.com/sicoreai/NeMo-text-processing/pkg/farstore"
	"github.com/sicoreai/NeMo-text-processing/pkg/farstore/postgres"
	"github.com/sicoreai/NeMo-text-processing/pkg/farstore/sqlite"
	"github.com/sicoreai/NeMo-text-processing/pkg/grammar"
	"github.com/sicoreai/NeMo-text-processing/pkg/normalize"
	"github.com/sicoreai/NeMo-text-processing/pkg/rerank"
)

// App owns the engine's subsystem lifetimes: the grammar archive store,
// the compiled grammar registry, and the normalizer facade over them.
type App struct {
	cfg *config.Config
	log *slog.Logger

	// Subsystems — initialised in New, torn down in Shutdown.
	store      farstore.Store
	registry   *normalize.Registry
	normalizer *normalize.Normalizer
	reranker   rerank.Reranker

	// closers are called in order during Shutdown.
	closers []func() error

	// stopOnce guards the Shutdown path.
	stopOnce sync.Once
}

// Option is a functional option for New. Use these to inject test doubles.
type Option func(*App)

// WithStore injects a grammar archive store instead of opening one from
// config. The caller keeps ownership: Shutdown does not close injected
// stores.
func WithStore(s farstore.Store) Option {
	return func(a *App) { a.store = s }
}

// WithLogger injects a logger instead of constructing one from the
// configured log level.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) { a.log = l }
}

// WithReranker injects a reranker the normalizer consults after grammar
// scoring.
func WithReranker(r rerank.Reranker) Option {
	return func(a *App) { a.reranker = r }
}

// New creates an App by wiring all subsystems together. The sources slice
// lists every grammar source the binary ships; cfg.Languages narrows which
// of them are built, and for which directions. Use Option functions to
// inject test doubles for any subsystem.
//
// New performs all initialisation synchronously: archive store connection
// and grammar assembly for every enabled (language, direction) pair. On a
// cold archive this can take a while; bound it through cfg.Build.
func New(ctx context.Context, cfg *config.Config, sources []grammar.Source, opts ...Option) (*App, error) {
	a := &App{cfg: cfg}
	for _, o := range opts {
		o(a)
	}
	if a.log == nil {
		a.log = newLogger(cfg.LogLevel)
	}

	// ── 1. Telemetry ─────────────────────────────────────────────────────
	if err := a.initTelemetry(ctx); err != nil {
		return nil, fmt.Errorf("app: init telemetry: %w", err)
	}

	// ── 2. Archive store ─────────────────────────────────────────────────
	if err := a.initStore(ctx); err != nil {
		return nil, fmt.Errorf("app: init archive store: %w", err)
	}

	// ── 3. Grammar registry ──────────────────────────────────────────────
	if err := a.initRegistry(ctx, sources); err != nil {
		return nil, fmt.Errorf("app: build grammars: %w", err)
	}

	// ── 4. Normalizer ────────────────────────────────────────────────────
	a.initNormalizer()

	a.log.Info("engine ready",
		"languages", a.registry.Languages(),
		"cache", a.cfg.Cache.Backend,
	)
	return a, nil
}

// ─── Init helpers ────────────────────────────────────────────────────────────

// initTelemetry starts the OTel providers when config asks for them. Off,
// every instrument in the pipeline is a no-op.
func (a *App) initTelemetry(ctx context.Context) error {
	if !a.cfg.Telemetry.Enabled {
		return nil
	}
	shutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName: a.cfg.Telemetry.ServiceName,
	})
	if err != nil {
		return err
	}
	a.closers = append(a.closers, func() error { return shutdown(context.Background()) })
	a.log.Info("telemetry enabled")
	return nil
}

// initStore opens the configured archive backend or keeps an injected one.
func (a *App) initStore(ctx context.Context) error {
	if a.store != nil {
		return nil // injected
	}

	switch a.cfg.Cache.Backend {
	case "", config.CacheNone:
		return nil
	case config.CacheSQLite:
		store, err := sqlite.Open(ctx, a.cfg.Cache.DSN)
		if err != nil {
			return err
		}
		a.store = store
		a.closers = append(a.closers, store.Close)
	case config.CachePostgres:
		store, err := postgres.NewStore(ctx, a.cfg.Cache.DSN)
		if err != nil {
			return err
		}
		a.store = store
		a.closers = append(a.closers, store.Close)
	default:
		return fmt.Errorf("unknown cache backend %q", a.cfg.Cache.Backend)
	}

	a.log.Info("archive store connected", "backend", a.cfg.Cache.Backend)
	return nil
}

// initRegistry narrows the sources to the configured languages and
// assembles every enabled grammar.
func (a *App) initRegistry(ctx context.Context, sources []grammar.Source) error {
	selected, err := selectSources(a.cfg.Languages, sources)
	if err != nil {
		return err
	}

	reg, err := normalize.BuildRegistry(ctx, normalize.RegistryConfig{
		Budget: a.cfg.Build.Budget(),
		Store:  a.store,
		Logger: a.log,
	}, selected...)
	if err != nil {
		return err
	}
	a.registry = reg
	return nil
}

// initNormalizer constructs the facade over the built registry.
func (a *App) initNormalizer() {
	nopts := []normalize.NormalizerOption{normalize.WithLogger(a.log)}
	if a.cfg.DefaultLanguage != "" {
		nopts = append(nopts, normalize.WithDefaultLanguage(a.cfg.DefaultLanguage))
	}
	if a.reranker != nil {
		nopts = append(nopts, normalize.WithReranker(a.reranker))
	}
	a.normalizer = normalize.New(a.registry, nopts...)
}

// ─── Accessors ───────────────────────────────────────────────────────────────

// Normalizer returns the ready-to-serve facade.
func (a *App) Normalizer() *normalize.Normalizer { return a.normalizer }

// Registry returns the built grammar registry.
func (a *App) Registry() *normalize.Registry { return a.registry }

// ─── Shutdown ────────────────────────────────────────────────────────────────

// Shutdown tears down all subsystems in init order. It respects the
// context deadline: if ctx expires before all closers finish, remaining
// closers are skipped and the context error is returned.
func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error
	a.stopOnce.Do(func() {
		a.log.Info("shutting down", "closers", len(a.closers))

		for i, closer := range a.closers {
			select {
			case <-ctx.Done():
				a.log.Warn("shutdown deadline exceeded", "remaining", len(a.closers)-i)
				shutdownErr = ctx.Err()
				return
			default:
			}
			if err := closer(); err != nil {
				a.log.Warn("closer error", "index", i, "err", err)
			}
		}

		a.log.Info("shutdown complete")
	})
	return shutdownErr
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// newLogger builds the default text logger at the configured level.
func newLogger(level config.LogLevel) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level.Level()}))
}

// selectSources applies the languages section of the config: an empty list
// enables every source in both directions, otherwise only the listed
// languages are kept, each narrowed to its configured directions.
func selectSources(langs []config.LanguageConfig, sources []grammar.Source) ([]grammar.Source, error) {
	byTag := make(map[string]grammar.Source, len(sources))
	for _, src := range sources {
		if _, dup := byTag[src.Language()]; dup {
			return nil, fmt.Errorf("duplicate grammar source for language %q", src.Language())
		}
		byTag[src.Language()] = src
	}

	if len(langs) == 0 {
		return sources, nil
	}

	selected := make([]grammar.Source, 0, len(langs))
	for _, lang := range langs {
		src, ok := byTag[lang.Tag]
		if !ok {
			return nil, fmt.Errorf("no grammar source for configured language %q", lang.Tag)
		}
		if len(lang.Directions) == 0 {
			selected = append(selected, src)
			continue
		}
		allowed := make(map[grammar.Direction]bool, len(lang.Directions))
		for _, d := range lang.Directions {
			allowed[d] = true
		}
		selected = append(selected, restrictedSource{Source: src, allowed: allowed})
	}
	return selected, nil
}

// restrictedSource narrows a source to the directions enabled in config.
// Disabled directions report no classes, which the registry skips.
type restrictedSource struct {
	grammar.Source
	allowed map[grammar.Direction]bool
}

func (r restrictedSource) Classes(dir grammar.Direction) []grammar.Class {
	if !r.allowed[dir] {
		return nil
	}
	return r.Source.Classes(dir)
}
