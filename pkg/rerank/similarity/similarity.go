// Package similarity implements the [rerank.Reranker] hook with plain
// Jaro-Winkler string similarity against the request input.
//
// It is a deliberately simple stand-in for an external language-model
// fusion service: candidates that stay textually closer to the input are
// preferred, near ties in the pipeline's own weights are broken by surface
// similarity, and anything below a configurable floor is dropped. It
// doubles as the reference for wiring a real scorer behind the hook and as
// the implementation the pipeline tests exercise.
package similarity

import (
	"context"
	"sort"
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/sicoreai/NeMo-text-processing/pkg/rerank"
)

const defaultMinSimilarity = 0.0

// Option is a functional option for configuring a [Reranker].
type Option func(*Reranker)

// WithMinSimilarity sets the score below which a candidate is dropped
// entirely. Scores range over [0, 1]. Default: 0, keeping everything.
func WithMinSimilarity(threshold float64) Option {
	return func(r *Reranker) {
		r.minSimilarity = threshold
	}
}

// Reranker orders candidates by Jaro-Winkler similarity to the input,
// highest first. It is read-only after construction and safe for
// concurrent use.
type Reranker struct {
	minSimilarity float64
}

var _ rerank.Reranker = (*Reranker)(nil)

// New returns a [Reranker] configured with the supplied options.
func New(opts ...Option) *Reranker {
	r := &Reranker{minSimilarity: defaultMinSimilarity}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Rerank scores every candidate against input, drops those under the
// similarity floor and returns the rest ordered by descending similarity.
// Equal scores keep their incoming order, so the pipeline's own ranking
// still breaks ties. Each returned candidate's Weight is rewritten to
// 1 - similarity, keeping lower-is-better semantics.
func (r *Reranker) Rerank(ctx context.Context, input string, cands []rerank.Candidate) ([]rerank.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	in := strings.ToLower(input)
	kept := make([]rerank.Candidate, 0, len(cands))
	for _, c := range cands {
		score := matchr.JaroWinkler(in, strings.ToLower(c.Output), false)
		if score < r.minSimilarity {
			continue
		}
		c.Weight = 1 - score
		kept = append(kept, c)
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Weight < kept[j].Weight })
	return kept, nil
}
