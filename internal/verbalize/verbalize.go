// Package verbalize implements the realization stage: a tagged sequence
// is expanded into the lattice of field orderings its class policies
// admit, composed against the compiled verbalizer, and the best spoken
// forms extracted.
package verbalize

import (
	"fmt"

	"github.com/sicoreai/NeMo-text-processing/pkg/fst"
	"github.com/sicoreai/NeMo-text-processing/pkg/grammar"
	"github.com/sicoreai/NeMo-text-processing/pkg/semiotic"
)

// Candidate is one realization of a tagged sequence.
type Candidate struct {
	// Output is the realized text.
	Output string
	// Tagged is the serialized ordering the verbalizer actually consumed,
	// i.e. the winning permutation. Alignment replays it.
	Tagged string
	// Path is the verbalizer path, kept for alignment.
	Path fst.Path
	// Cost is the realization's path weight, tagging cost not included.
	Cost float64
	// Order is the discovery index in the path search.
	Order int
}

func (c Candidate) Weight() float64 { return c.Cost }
func (c Candidate) Seq() int        { return c.Order }
func (c Candidate) Key() string     { return c.Output }

// Verbalizer runs one compiled grammar's realization side. Safe for
// concurrent use.
type Verbalizer struct {
	g *grammar.Compiled
}

// New returns a verbalizer over a compiled grammar.
func New(g *grammar.Compiled) *Verbalizer { return &Verbalizer{g: g} }

// Realize returns the up-to-n cheapest realizations of seq. An empty
// sequence or n < 1 is a silent no-op. A sequence the verbalizer rejects
// in every admissible ordering is broken grammar output and fails with
// semiotic.ErrMalformedOutput: taggings reaching this stage came from the
// paired tagger, which the build-time smoke check obligates the
// verbalizer to cover.
func (v *Verbalizer) Realize(seq semiotic.Sequence, n int) ([]Candidate, error) {
	if n < 1 || len(seq) == 0 {
		return nil, nil
	}
	lattice, err := v.lattice(seq)
	if err != nil {
		return nil, err
	}
	composed, err := fst.Compose(lattice, v.g.Verbalizer)
	if err != nil {
		return nil, fmt.Errorf("verbalize: %w", err)
	}
	paths := fst.ShortestPaths(composed, n)
	if len(paths) == 0 {
		return nil, fmt.Errorf("verbalize: verbalizer rejects tagging %q: %w",
			semiotic.Serialize(seq), semiotic.ErrMalformedOutput)
	}

	cands := make([]Candidate, len(paths))
	for i, p := range paths {
		cands[i] = Candidate{
			Output: p.OutputString(v.g.Symbols),
			Tagged: p.InputString(v.g.Symbols),
			Path:   p,
			Cost:   p.Weight,
			Order:  i,
		}
	}
	return cands, nil
}

// lattice builds the acceptor of every admissible serialization of seq:
// per token the orderings its policy admits, unioned; tokens joined over
// the canonical separator.
func (v *Verbalizer) lattice(seq semiotic.Sequence) (*fst.Fst, error) {
	parts := make([]*fst.Fst, 0, 2*len(seq)-1)
	for i, tok := range seq {
		if i > 0 {
			sep, err := v.chainOf(" ")
			if err != nil {
				return nil, err
			}
			parts = append(parts, sep)
		}
		variants, err := v.orderings(tok)
		if err != nil {
			return nil, err
		}
		alts := make([]*fst.Fst, len(variants))
		for j, variant := range variants {
			if alts[j], err = v.chainOf(semiotic.SerializeToken(variant)); err != nil {
				return nil, err
			}
		}
		parts = append(parts, fst.Union(alts...))
	}
	return fst.Concat(parts...), nil
}

// orderings returns the field orderings the token's policy admits, the
// emitted order first.
func (v *Verbalizer) orderings(tok semiotic.Token) ([]semiotic.Token, error) {
	if tok.IsLiteral() || (tok.Class != "" && v.g.Policies[tok.Class] == semiotic.OrderFixed) {
		return []semiotic.Token{tok}, nil
	}
	return semiotic.Permutations(tok)
}

func (v *Verbalizer) chainOf(text string) (*fst.Fst, error) {
	labels, ok := v.g.Symbols.FindRunes(text)
	if !ok {
		return nil, fmt.Errorf("verbalize: tagging %q uses a symbol outside the grammar alphabet: %w",
			text, semiotic.ErrMalformedOutput)
	}
	return fst.AccepLabels(v.g.Symbols, labels), nil
}
