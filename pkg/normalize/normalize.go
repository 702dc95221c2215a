// Package normalize is the request surface of the text normalization
// engine. A [Normalizer] serves written-to-spoken and spoken-to-written
// conversion from a [Registry] of compiled grammars: input is tagged,
// the taggings are realized, and the cheapest distinct outputs are
// returned in deterministic order, optionally rescored by a
// [rerank.Reranker] and annotated with an input/output span alignment.
//
// Text the grammar has no reading for is never an error: it passes
// through unchanged with weight zero. Errors from Normalize always mean
// a bad request or a broken grammar, not unmatchable input.
package normalize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"github.com/sicoreai/NeMo-text-processing/internal/align"
	"github.com/sicoreai/NeMo-text-processing/internal/classify"
	"github.com/sicoreai/NeMo-text-processing/internal/observe"
	"github.com/sicoreai/NeMo-text-processing/internal/rank"
	"github.com/sicoreai/NeMo-text-processing/internal/verbalize"
	"github.com/sicoreai/NeMo-text-processing/pkg/grammar"
	"github.com/sicoreai/NeMo-text-processing/pkg/rerank"
)

// Direction selects which way to normalize.
type Direction = grammar.Direction

// Directions a [Normalizer] serves.
const (
	TextToSpoken = grammar.TextToSpoken
	SpokenToText = grammar.SpokenToText
)

// DefaultLanguage is the language served when a request names none.
const DefaultLanguage = "en"

var (
	// ErrUnknownGrammar is returned when the registry holds no grammar
	// for the requested language and direction.
	ErrUnknownGrammar = errors.New("normalize: no grammar for language and direction")

	// ErrPathOutputMismatch is returned when alignment replay disagrees
	// with the selected candidate. It always indicates a pipeline bug.
	ErrPathOutputMismatch = align.ErrPathOutputMismatch
)

// Span is a half-open rune offset range.
type Span struct {
	Start, End int
}

// AlignedSpan pairs an input span with the output span it produced.
type AlignedSpan struct {
	Input  Span
	Output Span
}

// Alignment maps the input to the output of a normalization: pairs are in
// order, input spans partition the input and output spans partition the
// output. Offsets count runes, not bytes, and refer to the canonical form
// of the input (NFC, surrounding whitespace trimmed) and to the output
// exactly as returned.
type Alignment []AlignedSpan

func toAlignment(m align.Map) Alignment {
	if m == nil {
		return nil
	}
	a := make(Alignment, len(m))
	for i, p := range m {
		a[i] = AlignedSpan{Input: Span(p.Input), Output: Span(p.Output)}
	}
	return a
}

// Result is the outcome of one Normalize call.
type Result struct {
	// Output is the selected normalization.
	Output string

	// Weight is the winner's total path cost through both stages, lower
	// is better. A pass-through carries weight zero.
	Weight float64

	// Alignment maps input spans to output spans. Nil unless requested
	// via [WithAlignment].
	Alignment Alignment

	// Candidates are the top-K outputs in final order, the winner first.
	Candidates []rerank.Candidate
}

// NormalizerOption configures [New].
type NormalizerOption func(*Normalizer)

// WithReranker installs a rescoring hook over the pipeline's top-K
// candidates. Without one, candidates keep shortest-weight order.
func WithReranker(r rerank.Reranker) NormalizerOption {
	return func(n *Normalizer) { n.reranker = r }
}

// WithLogger routes request logging. By default requests log through
// slog.Default() enriched with the active trace and span IDs.
func WithLogger(l *slog.Logger) NormalizerOption {
	return func(n *Normalizer) { n.log = l }
}

// WithDefaultLanguage overrides the language served when a request names
// none. Defaults to [DefaultLanguage].
func WithDefaultLanguage(tag string) NormalizerOption {
	return func(n *Normalizer) { n.language = tag }
}

// Option configures one Normalize call.
type Option func(*request)

type request struct {
	topK     int
	align    bool
	language string
}

// WithTopK requests up to k distinct candidates instead of one. k must be
// at least 1.
func WithTopK(k int) Option {
	return func(r *request) { r.topK = k }
}

// WithAlignment requests an input/output span map for the winning
// candidate.
func WithAlignment() Option {
	return func(r *request) { r.align = true }
}

// WithLanguage selects the grammar language for this call.
func WithLanguage(tag string) Option {
	return func(r *request) { r.language = tag }
}

// Normalizer converts text between written and spoken form. It is
// stateless apart from its registry and safe for concurrent use.
type Normalizer struct {
	reg      *Registry
	reranker rerank.Reranker
	log      *slog.Logger
	met      *observe.Metrics
	language string
}

// New returns a normalizer serving from reg.
func New(reg *Registry, opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{
		reg:      reg,
		met:      observe.DefaultMetrics(),
		language: DefaultLanguage,
	}
	for _, o := range opts {
		o(n)
	}
	return n
}

// Normalize converts text in the given direction and returns the best
// candidate, with up to top-K alternatives in [Result.Candidates].
//
// Identical input against an identical registry yields a bit-identical
// result: stage fan-out is order-pinned and every tie is broken by
// discovery order, so concurrency cannot leak into the answer.
func (n *Normalizer) Normalize(ctx context.Context, text string, dir Direction, opts ...Option) (*Result, error) {
	req := request{topK: 1, language: n.language}
	for _, o := range opts {
		o(&req)
	}
	if req.topK < 1 {
		return nil, fmt.Errorf("normalize: top-k must be at least 1, got %d", req.topK)
	}
	if !dir.IsValid() {
		return nil, fmt.Errorf("normalize: invalid direction %q", string(dir))
	}
	g, ok := n.reg.Grammar(req.language, dir)
	if !ok {
		return nil, fmt.Errorf("normalize: %s/%s: %w", req.language, string(dir), ErrUnknownGrammar)
	}

	ctx, span := observe.StartSpan(ctx, "normalize")
	defer span.End()

	attrs := metric.WithAttributes(
		observe.Attr("language", req.language),
		observe.Attr("direction", string(dir)),
	)
	n.met.Requests.Add(ctx, 1, attrs)
	began := time.Now()
	defer func() {
		n.met.NormalizeDuration.Record(ctx, time.Since(began).Seconds(), attrs)
	}()

	tagBegan := time.Now()
	taggings, err := classify.New(g).Candidates(text, req.topK)
	n.met.TagDuration.Record(ctx, time.Since(tagBegan).Seconds(), attrs)
	if err != nil {
		return nil, err
	}
	if len(taggings) == 0 {
		return n.passThrough(ctx, text, dir, req, attrs), nil
	}

	verbBegan := time.Now()
	pcands, err := n.realizeAll(ctx, g, taggings, req.topK)
	n.met.VerbalizeDuration.Record(ctx, time.Since(verbBegan).Seconds(), attrs)
	if err != nil {
		return nil, err
	}

	best := rank.Select(pcands, req.topK)
	cands := make([]rerank.Candidate, len(best))
	for i, pc := range best {
		cands[i] = rerank.Candidate{Output: pc.output, Tagged: pc.tagged, Weight: pc.weight}
	}
	winner := best[0]
	if n.reranker != nil {
		cands, winner, err = n.applyRerank(ctx, classify.Canonical(text), cands, best)
		if err != nil {
			return nil, err
		}
	}

	res := &Result{
		Output:     winner.output,
		Weight:     winner.weight,
		Candidates: cands,
	}
	if req.align {
		m, err := n.alignWinner(g, winner, classify.Canonical(text))
		if err != nil {
			return nil, err
		}
		res.Alignment = toAlignment(m)
	}

	n.logFor(ctx).Debug("normalized",
		"language", req.language,
		"direction", string(dir),
		"candidates", len(cands),
		"weight", res.Weight,
		"duration", time.Since(began))
	return res, nil
}

// passThrough is the fallback for text the grammar has no reading of: the
// raw input comes back unchanged with weight zero and, when requested, an
// identity alignment.
func (n *Normalizer) passThrough(ctx context.Context, text string, dir Direction, req request, attrs metric.MeasurementOption) *Result {
	n.met.PassThroughs.Add(ctx, 1, attrs)
	res := &Result{
		Output:     text,
		Candidates: []rerank.Candidate{{Output: text}},
	}
	if req.align {
		res.Alignment = toAlignment(align.Identity(text))
	}
	n.logFor(ctx).Debug("pass-through",
		"language", req.language,
		"direction", string(dir))
	return res
}

// pipelineCandidate is one end-to-end (tagging, realization) pairing. Its
// weight is the total path cost of both stages and its dedup key is the
// output text itself: distinct taggings realizing to the same string are
// the same answer.
type pipelineCandidate struct {
	output  string
	tagged  string
	weight  float64
	seq     int
	tagging classify.Candidate
	real    verbalize.Candidate
}

func (c pipelineCandidate) Weight() float64 { return c.weight }
func (c pipelineCandidate) Seq() int        { return c.seq }
func (c pipelineCandidate) Key() string     { return c.output }

// realizeAll verbalizes every tagging concurrently. Rows are indexed by
// tagging order and sequence numbers are assigned after the fan-in, so
// scheduling cannot reorder equal-weight candidates.
func (n *Normalizer) realizeAll(ctx context.Context, g *grammar.Compiled, taggings []classify.Candidate, topK int) ([]pipelineCandidate, error) {
	rows := make([][]verbalize.Candidate, len(taggings))
	v := verbalize.New(g)
	eg, egCtx := errgroup.WithContext(ctx)
	for i, tc := range taggings {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			vcs, err := v.Realize(tc.Sequence, topK)
			if err != nil {
				return err
			}
			rows[i] = vcs
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var out []pipelineCandidate
	for i, tc := range taggings {
		for _, vc := range rows[i] {
			out = append(out, pipelineCandidate{
				output:  vc.Output,
				tagged:  vc.Tagged,
				weight:  tc.Cost + vc.Cost,
				seq:     len(out),
				tagging: tc,
				real:    vc,
			})
		}
	}
	return out, nil
}

// applyRerank runs the configured reranker over the ranked candidates. An
// empty rerank result keeps the pipeline's own order. A reranked winner
// must be one of the pipeline's candidates: rerankers reorder and drop,
// they never invent, and the winner's pipeline weight and paths stay
// authoritative for [Result.Weight] and alignment.
func (n *Normalizer) applyRerank(ctx context.Context, input string, cands []rerank.Candidate, best []pipelineCandidate) ([]rerank.Candidate, pipelineCandidate, error) {
	re, err := n.reranker.Rerank(ctx, input, cands)
	if err != nil {
		return nil, pipelineCandidate{}, fmt.Errorf("normalize: rerank: %w", err)
	}
	if len(re) == 0 {
		return cands, best[0], nil
	}
	for _, pc := range best {
		if pc.output == re[0].Output {
			return re, pc, nil
		}
	}
	return nil, pipelineCandidate{}, fmt.Errorf("normalize: rerank returned unknown candidate %q", re[0].Output)
}

// alignWinner replays the winner's exact tagging and realization paths
// and derives the span map against the canonical input.
func (n *Normalizer) alignWinner(g *grammar.Compiled, winner pipelineCandidate, input string) (align.Map, error) {
	path, err := align.Join(g, winner.tagging.Path, winner.real.Path)
	if err != nil {
		return nil, err
	}
	return align.Walk(g.Symbols, path, input, winner.output)
}

// logFor returns the per-request logger: the one installed via
// [WithLogger], or the trace-enriched default.
func (n *Normalizer) logFor(ctx context.Context) *slog.Logger {
	if n.log != nil {
		return n.log
	}
	return observe.Logger(ctx)
}
