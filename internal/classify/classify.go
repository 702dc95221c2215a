// Package classify implements the tokenize-and-classify stage: input text
// is composed against the compiled tagger, the best taggings are
// extracted, parsed under the token protocol and deduplicated down to
// distinct readings.
package classify

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/sicoreai/NeMo-text-processing/internal/rank"
	"github.com/sicoreai/NeMo-text-processing/pkg/fst"
	"github.com/sicoreai/NeMo-text-processing/pkg/grammar"
	"github.com/sicoreai/NeMo-text-processing/pkg/semiotic"
)

// Candidate is one distinct tagging of the input.
type Candidate struct {
	// Sequence is the parsed tagging.
	Sequence semiotic.Sequence
	// Tagged is the raw tagged text the tagger path emitted.
	Tagged string
	// Path is the tagger path, kept for alignment.
	Path fst.Path
	// Cost is the tagging's total path weight.
	Cost float64
	// Order is the discovery index in the path search.
	Order int
	// Identity is the permutation-insensitive dedup key.
	Identity string
}

func (c Candidate) Weight() float64 { return c.Cost }
func (c Candidate) Seq() int        { return c.Order }
func (c Candidate) Key() string     { return c.Identity }

// Classifier runs one compiled grammar's tagger. Safe for concurrent use.
type Classifier struct {
	g *grammar.Compiled
}

// New returns a classifier over a compiled grammar.
func New(g *grammar.Compiled) *Classifier { return &Classifier{g: g} }

// overfetch is how many extra paths the search returns per requested
// candidate. Field permutations of one reading arrive as separate paths
// and collapse in dedup, so the search must look past them to find
// genuinely distinct readings.
const overfetch = 8

// Canonical returns the form of text that is actually transduced: NFC
// normalization with surrounding whitespace trimmed. Alignment offsets
// refer to this string.
func Canonical(text string) string {
	return strings.TrimSpace(norm.NFC.String(text))
}

// Candidates returns the up-to-n best distinct taggings of text, cheapest
// first. Input is passed through [Canonical] first.
//
// A nil, nil return means no tagging exists, either because the input
// contains symbols outside the grammar alphabet or because no path
// accepts it; the caller falls back to pass-through. A non-nil error
// always means broken grammar output, never unmatchable input.
func (c *Classifier) Candidates(text string, n int) ([]Candidate, error) {
	if n < 1 {
		return nil, nil
	}
	input := Canonical(text)
	if input == "" {
		return nil, nil
	}
	labels, ok := c.g.Symbols.FindRunes(input)
	if !ok {
		return nil, nil
	}

	lattice, err := fst.Compose(fst.AccepLabels(c.g.Symbols, labels), c.g.Tagger)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	paths := fst.ShortestPaths(lattice, n*overfetch)
	if len(paths) == 0 {
		return nil, nil
	}

	cands := make([]Candidate, 0, len(paths))
	for i, p := range paths {
		tagged := p.OutputString(c.g.Symbols)
		seq, err := semiotic.Parse(tagged)
		if err != nil {
			return nil, fmt.Errorf("classify: tagging %q: %w", tagged, err)
		}
		if err := c.checkVocabulary(seq); err != nil {
			return nil, fmt.Errorf("classify: tagging %q: %w", tagged, err)
		}
		cands = append(cands, Candidate{
			Sequence: seq,
			Tagged:   tagged,
			Path:     p,
			Cost:     p.Weight,
			Order:    i,
			Identity: semiotic.Key(seq, c.g.Policies),
		})
	}
	return rank.Select(cands, n), nil
}

// checkVocabulary enforces the fixed class vocabulary: compiled grammars
// and their consumers agree on class names up front, so a tagging with an
// unregistered top-level class is grammar breakage, not data.
func (c *Classifier) checkVocabulary(seq semiotic.Sequence) error {
	for _, tok := range seq {
		if tok.Class == "" {
			continue
		}
		if _, ok := c.g.Policies[tok.Class]; !ok {
			return fmt.Errorf("class %q is not registered: %w", tok.Class, semiotic.ErrMalformedOutput)
		}
	}
	return nil
}
