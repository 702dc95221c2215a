package grammar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sicoreai/NeMo-text-processing/pkg/fst"
	"github.com/sicoreai/NeMo-text-processing/pkg/semiotic"
)

// Budget bounds one assembly run. The zero value is unbounded.
type Budget struct {
	// MaxStates caps the state count of each optimized sub-grammar.
	MaxStates int
	// Timeout bounds the whole assembly, all classes included.
	Timeout time.Duration
}

// Option configures [Assemble].
type Option func(*assembleConfig)

type assembleConfig struct {
	budget Budget
	log    *slog.Logger
}

// WithBudget applies a state and time budget to the build.
func WithBudget(b Budget) Option {
	return func(c *assembleConfig) { c.budget = b }
}

// WithLogger routes build progress logging. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *assembleConfig) { c.log = l }
}

// Assemble compiles a source for one direction into an immutable
// tagger/verbalizer pair.
//
// Each class is built, wrapped in the token syntax, biased by its declared
// weight and optimized on its own, so that a blowup or a protocol bug is
// attributed to the class that caused it. Every class is then smoke-checked:
// its cheapest tagged emission must parse under the token protocol and be
// accepted by its own verbalizer in at least one admissible field order.
// Finally the class machines are unioned and closed over the token
// separator into whole-utterance transducers.
//
// Budget violations surface as [ErrTooLarge] and [ErrBuildTimeout];
// protocol violations as semiotic.ErrMalformedOutput. All of them abort
// the build: a grammar that fails assembly is never served.
func Assemble(ctx context.Context, src Source, dir Direction, opts ...Option) (*Compiled, error) {
	cfg := assembleConfig{log: slog.Default()}
	for _, o := range opts {
		o(&cfg)
	}

	plan, err := PlanOf(src, dir)
	if err != nil {
		return nil, err
	}
	if cfg.budget.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.budget.Timeout)
		defer cancel()
	}

	log := cfg.log.With("language", plan.Language, "direction", string(dir))
	began := time.Now()

	kit := NewKit()
	classes := src.Classes(dir)
	policies := make(map[string]semiotic.OrderPolicy, len(classes))
	tagToks := make([]*fst.Fst, 0, len(classes))
	verbToks := make([]*fst.Fst, 0, len(classes))

	var optOpts []fst.OptimizeOption
	if cfg.budget.MaxStates > 0 {
		optOpts = append(optOpts, fst.WithStateLimit(cfg.budget.MaxStates))
	}

	for _, c := range classes {
		if err := buildErr(ctx.Err(), c.Name, "build"); err != nil {
			return nil, fmt.Errorf("grammar %s/%s: %w", plan.Language, dir, err)
		}
		stepBegan := time.Now()
		tagTok, verbTok, err := buildClass(ctx, kit, c, optOpts)
		if err == nil {
			err = smokeCheck(kit, c, tagTok, verbTok)
		}
		if err != nil {
			return nil, fmt.Errorf("grammar %s/%s: %w", plan.Language, dir, err)
		}
		policies[c.Name] = c.Order
		tagToks = append(tagToks, tagTok)
		verbToks = append(verbToks, verbTok)
		log.Debug("class compiled",
			"class", c.Name,
			"tagger_states", tagTok.NumStates(),
			"verbalizer_states", verbTok.NumStates(),
			"duration", time.Since(stepBegan))
	}

	// The tagger eats runs of input spaces down to the single canonical
	// separator; the verbalizer sees canonical text only.
	tagger := fst.RemoveEpsilon(chain(tagToks, collapseSpaces(kit)))
	verbalizer := fst.RemoveEpsilon(chain(verbToks, kit.Accep(" ")))

	compiled := &Compiled{
		Language:    plan.Language,
		Direction:   dir,
		Version:     plan.Version,
		Tagger:      tagger,
		Verbalizer:  verbalizer,
		Symbols:     kit.Symbols(),
		Policies:    policies,
		Fingerprint: plan.Fingerprint(),
	}
	log.Info("grammar assembled",
		"classes", len(classes),
		"tagger_states", tagger.NumStates(),
		"verbalizer_states", verbalizer.NumStates(),
		"symbols", kit.Symbols().Len(),
		"fingerprint", compiled.Fingerprint,
		"duration", time.Since(began))
	return compiled, nil
}

// buildClass compiles both sides of one class: builder output wrapped in
// the token syntax, weighted on the tagger side, optimized under budget.
func buildClass(ctx context.Context, kit *Kit, c Class, optOpts []fst.OptimizeOption) (tagTok, verbTok *fst.Fst, err error) {
	body, err := c.Tagger(kit)
	if err != nil {
		return nil, nil, fmt.Errorf("class %q: tagger: %w", c.Name, err)
	}
	tok := fst.AddWeight(fst.Concat(kit.Insert("tokens { "), body, kit.Insert(" }")), c.Weight)
	tagTok, err = fst.Optimize(ctx, tok, optOpts...)
	if err != nil {
		return nil, nil, buildErr(err, c.Name, "tagger")
	}
	if tagTok.IsEmpty() {
		return nil, nil, fmt.Errorf("class %q: tagger: %w", c.Name, ErrEmptyClass)
	}

	vbody, err := c.Verbalizer(kit)
	if err != nil {
		return nil, nil, fmt.Errorf("class %q: verbalizer: %w", c.Name, err)
	}
	vtok := fst.Concat(kit.Delete("tokens { "), vbody, kit.Delete(" }"))
	verbTok, err = fst.Optimize(ctx, vtok, optOpts...)
	if err != nil {
		return nil, nil, buildErr(err, c.Name, "verbalizer")
	}
	return tagTok, verbTok, nil
}

// buildErr maps optimization failures onto the build error taxonomy,
// keeping the class and step visible.
func buildErr(err error, class, step string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fst.ErrStateLimit):
		return fmt.Errorf("class %q: %s: %w: %w", class, step, ErrTooLarge, err)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("class %q: %s: %w: %w", class, step, ErrBuildTimeout, err)
	default:
		return fmt.Errorf("class %q: %s: %w", class, step, err)
	}
}

// smokeCheck round-trips the class's cheapest tagged emission: it must
// parse under the token protocol, stay inside the declared class
// vocabulary, and be accepted by the class verbalizer in at least one
// field order the policy admits. Catching this at build time is what keeps
// protocol bugs out of the serving path.
func smokeCheck(kit *Kit, c Class, tagTok, verbTok *fst.Fst) error {
	sample, ok := fst.ShortestPath(tagTok)
	if !ok {
		return fmt.Errorf("class %q: %w", c.Name, ErrEmptyClass)
	}
	tagged := sample.OutputString(kit.Symbols())
	seq, err := semiotic.Parse(tagged)
	if err != nil {
		return fmt.Errorf("class %q: tagger emits unparseable text %q: %w", c.Name, tagged, err)
	}
	if len(seq) != 1 {
		return fmt.Errorf("class %q: tagger emits %d tokens per span, want 1: %w",
			c.Name, len(seq), semiotic.ErrMalformedOutput)
	}
	tok := seq[0]
	if tok.Class != "" && tok.Class != c.Name {
		return fmt.Errorf("class %q: tagger emits foreign class %q: %w",
			c.Name, tok.Class, semiotic.ErrMalformedOutput)
	}

	variants := []semiotic.Token{tok}
	if c.Order == semiotic.OrderPermute {
		variants, err = semiotic.Permutations(tok)
		if err != nil {
			return fmt.Errorf("class %q: %w", c.Name, err)
		}
	}
	for _, v := range variants {
		lattice := fst.Accep(kit.Symbols(), semiotic.SerializeToken(v))
		out, err := fst.Compose(lattice, verbTok)
		if err != nil {
			return fmt.Errorf("class %q: smoke compose: %w", c.Name, err)
		}
		if !out.IsEmpty() {
			return nil
		}
	}
	return fmt.Errorf("class %q: verbalizer rejects tagger output %q: %w",
		c.Name, tagged, semiotic.ErrMalformedOutput)
}

// chain closes a token union over the separator: tok (sep tok)*.
func chain(toks []*fst.Fst, sep *fst.Fst) *fst.Fst {
	u := fst.Union(toks...)
	return fst.Concat(u, fst.Closure(fst.Concat(sep, u), fst.ClosureStar))
}

// collapseSpaces maps any run of input spaces onto the single canonical
// separator space of the tagged form.
func collapseSpaces(kit *Kit) *fst.Fst {
	return fst.Concat(kit.Accep(" "), fst.Closure(kit.Delete(" "), fst.ClosureStar))
}
