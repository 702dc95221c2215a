// Package rank implements deterministic top-K selection over weighted
// candidates: nondecreasing weight, discovery order breaking ties, and
// identity-based dedup keeping the cheapest representative. Both pipeline
// stages and the final result selection go through it, so reproducibility
// is decided in exactly one place.
package rank

import "sort"

// Candidate is the minimal surface a rankable candidate exposes.
type Candidate interface {
	// Weight is the candidate's total path weight; lower is better.
	Weight() float64
	// Seq is the candidate's discovery sequence. Among equal weights the
	// earlier discovery wins, which pins results to the canonical
	// exploration order of the search.
	Seq() int
	// Key is the candidate's dedup identity. Candidates sharing a key are
	// the same answer reached along different paths; only the best
	// survives selection.
	Key() string
}

// Select returns up to k candidates ordered by nondecreasing weight,
// discovery order breaking ties, with at most one candidate per key.
// Asking for more than exist returns all of them; k < 1 returns nil. The
// input slice is not modified.
func Select[T Candidate](cands []T, k int) []T {
	if k < 1 || len(cands) == 0 {
		return nil
	}
	sorted := make([]T, len(cands))
	copy(sorted, cands)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Weight() != sorted[j].Weight() {
			return sorted[i].Weight() < sorted[j].Weight()
		}
		return sorted[i].Seq() < sorted[j].Seq()
	})

	out := make([]T, 0, k)
	seen := make(map[string]bool, len(sorted))
	for _, c := range sorted {
		if seen[c.Key()] {
			continue
		}
		seen[c.Key()] = true
		out = append(out, c)
		if len(out) == k {
			break
		}
	}
	return out
}
