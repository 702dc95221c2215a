// Package rerank defines the hook through which an external scorer, such
// as a masked-language-model fusion service, can reorder the pipeline's
// top-K candidates before one is selected.
//
// The core pipeline never depends on a reranker being present: without one
// it returns plain shortest-weight order. With one, the hook receives the
// ranked candidates and returns a reordered or filtered subset, best
// first. A reranker must not invent candidates; it may only drop or
// reorder the ones it was given.
package rerank

import "context"

// Candidate is one normalization outcome offered for rescoring.
type Candidate struct {
	// Output is the realized text.
	Output string

	// Tagged is the tagged form the output was realized from. Empty for a
	// literal pass-through.
	Tagged string

	// Weight is the pipeline's path cost, lower is better. Rerankers may
	// overwrite it with their own score as long as the slice stays sorted
	// best first.
	Weight float64
}

// Reranker reorders or filters candidates for one input.
type Reranker interface {
	// Rerank returns a subset of cands ordered best first. input is the
	// original request text. Returning an empty slice rejects every
	// candidate, which callers treat as "keep the pipeline's own order".
	Rerank(ctx context.Context, input string, cands []Candidate) ([]Candidate, error)
}
