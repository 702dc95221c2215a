// Package align recovers character-level correspondences between an input
// string and the output produced for it. It does not re-transduce anything:
// it replays the exact path that won shortest-path selection and reads the
// consumed and emitted symbols off its arcs, so the alignment is true to
// the run that produced the output rather than a best-effort diff.
package align

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sicoreai/NeMo-text-processing/pkg/fst"
	"github.com/sicoreai/NeMo-text-processing/pkg/grammar"
	"github.com/sicoreai/NeMo-text-processing/pkg/semiotic"
)

// ErrPathOutputMismatch reports that a path does not replay to the text it
// was paired with. It always means caller misuse, a stale pairing of path
// and strings, and is never recovered from.
var ErrPathOutputMismatch = errors.New("align: path does not replay to the paired text")

// Span is a half-open range of rune offsets.
type Span struct {
	Start int
	End   int
}

// Len returns the number of runes the span covers.
func (s Span) Len() int { return s.End - s.Start }

// Pair couples the input span consumed with the output span emitted over
// one stretch of a path.
type Pair struct {
	Input  Span
	Output Span
}

// Map is an ordered, monotone alignment: input spans partition the input
// string exactly, output spans partition the output string exactly, and
// pairs appear in the same relative order on both sides. A single pair may
// still reorder internally, as field-permuting classes do.
type Map []Pair

// Identity aligns a string to itself as one covering pair. Empty text
// aligns to nothing.
func Identity(text string) Map {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return nil
	}
	return Map{{Input: Span{0, n}, Output: Span{0, n}}}
}

// Walk replays path and aligns input against output. An arc that both
// consumes and emits opens a new pair; an arc that only consumes extends
// the input span of the previous pair, and an arc that only emits extends
// its output span. Arcs before the first pair attach to that pair. Offsets
// count runes.
//
// Walk fails with [ErrPathOutputMismatch] when the path does not actually
// consume input and produce output, which catches stale path/text pairings
// before they can mislead a caller.
func Walk(t *fst.SymbolTable, path fst.Path, input, output string) (Map, error) {
	var (
		m             Map
		inPos, outPos int
		gotIn, gotOut strings.Builder
	)
	for _, a := range path.Arcs {
		inName, err := runeName(t, a.In)
		if err != nil {
			return nil, err
		}
		outName, err := runeName(t, a.Out)
		if err != nil {
			return nil, err
		}
		gotIn.WriteString(inName)
		gotOut.WriteString(outName)
		inN := utf8.RuneCountInString(inName)
		outN := utf8.RuneCountInString(outName)
		switch {
		case inN > 0 && outN > 0:
			p := Pair{
				Input:  Span{inPos, inPos + inN},
				Output: Span{outPos, outPos + outN},
			}
			if len(m) == 0 {
				p.Input.Start, p.Output.Start = 0, 0
			}
			m = append(m, p)
		case inN > 0 && len(m) > 0:
			m[len(m)-1].Input.End += inN
		case outN > 0 && len(m) > 0:
			m[len(m)-1].Output.End += outN
		}
		inPos += inN
		outPos += outN
	}
	if got := gotIn.String(); got != input {
		return nil, fmt.Errorf("%w: path consumes %q, caller paired it with %q", ErrPathOutputMismatch, got, input)
	}
	if got := gotOut.String(); got != output {
		return nil, fmt.Errorf("%w: path produces %q, caller paired it with %q", ErrPathOutputMismatch, got, output)
	}
	if len(m) == 0 && (inPos > 0 || outPos > 0) {
		m = Map{{Input: Span{0, inPos}, Output: Span{0, outPos}}}
	}
	return m, nil
}

func runeName(t *fst.SymbolTable, l fst.Label) (string, error) {
	if l == fst.Epsilon {
		return "", nil
	}
	s := t.Name(l)
	if s == "" {
		return "", fmt.Errorf("%w: label %d is not in the symbol table", ErrPathOutputMismatch, l)
	}
	return s, nil
}

// Join fuses the tagging path and the realization path of one candidate
// into a single input-to-output path suitable for [Walk]. The two paths
// meet on the tagged text, which is not literally shared when a class
// permutes fields: the realization may have consumed a reordering of what
// the tagger emitted. Join bridges each reordered token by consuming its
// emitted form wholesale and re-emitting the winning order, which [Walk]
// then folds into a single internally-reordering pair.
func Join(g *grammar.Compiled, tagging, realization fst.Path) (fst.Path, error) {
	t := g.Symbols
	emitted := tagging.OutputString(t)
	winning := realization.InputString(t)
	bridge, err := bridgeFor(t, emitted, winning)
	if err != nil {
		return fst.Path{}, err
	}
	left, err := fst.Compose(pathFst(t, tagging), bridge)
	if err != nil {
		return fst.Path{}, fmt.Errorf("align: joining tagging path: %w", err)
	}
	full, err := fst.Compose(left, pathFst(t, realization))
	if err != nil {
		return fst.Path{}, fmt.Errorf("align: joining realization path: %w", err)
	}
	p, ok := fst.ShortestPath(full)
	if !ok {
		return fst.Path{}, fmt.Errorf("%w: tagging emitted %q but realization consumed %q", ErrPathOutputMismatch, emitted, winning)
	}
	return p, nil
}

// bridgeFor maps the tagger's emitted text onto the text the realization
// consumed, token by token. Tokens whose serialization matches pass through
// as identity; reordered tokens become a consume-all-then-emit-all block.
func bridgeFor(t *fst.SymbolTable, emitted, winning string) (*fst.Fst, error) {
	eseq, err := semiotic.Parse(emitted)
	if err != nil {
		return nil, fmt.Errorf("%w: tagging path replays to unparseable text %q: %v", ErrPathOutputMismatch, emitted, err)
	}
	wseq, err := semiotic.Parse(winning)
	if err != nil {
		return nil, fmt.Errorf("%w: realization path replays to unparseable text %q: %v", ErrPathOutputMismatch, winning, err)
	}
	if len(eseq) != len(wseq) {
		return nil, fmt.Errorf("%w: tagging has %d tokens, realization has %d", ErrPathOutputMismatch, len(eseq), len(wseq))
	}
	sep, ok := t.FindRunes(" ")
	if !ok {
		return nil, fmt.Errorf("%w: separator is not in the symbol table", ErrPathOutputMismatch)
	}
	parts := make([]*fst.Fst, 0, 2*len(eseq))
	for i := range eseq {
		if i > 0 {
			parts = append(parts, fst.AccepLabels(t, sep))
		}
		et := semiotic.SerializeToken(eseq[i])
		wt := semiotic.SerializeToken(wseq[i])
		els, ok := t.FindRunes(et)
		if !ok {
			return nil, fmt.Errorf("%w: tagged text %q uses symbols outside the grammar alphabet", ErrPathOutputMismatch, et)
		}
		if et == wt {
			parts = append(parts, fst.AccepLabels(t, els))
			continue
		}
		// A reordered token must still be the same token. Comparing the
		// order-insensitive keys rejects stale pairings where the caller
		// mixed paths from different candidates.
		ek := semiotic.Key(semiotic.Sequence{eseq[i]}, nil)
		wk := semiotic.Key(semiotic.Sequence{wseq[i]}, nil)
		if ek != wk {
			return nil, fmt.Errorf("%w: realization token %q is not a field permutation of tagging token %q", ErrPathOutputMismatch, wt, et)
		}
		wls, ok := t.FindRunes(wt)
		if !ok {
			return nil, fmt.Errorf("%w: tagged text %q uses symbols outside the grammar alphabet", ErrPathOutputMismatch, wt)
		}
		parts = append(parts, fst.Concat(
			fst.CrossLabels(t, els, nil),
			fst.CrossLabels(t, nil, wls),
		))
	}
	return fst.Concat(parts...), nil
}

// pathFst lays a path back out as a linear transducer so it can be
// composed with the bridge.
func pathFst(t *fst.SymbolTable, p fst.Path) *fst.Fst {
	f := fst.New(t)
	cur := f.AddState()
	f.SetStart(cur)
	for _, a := range p.Arcs {
		next := f.AddState()
		f.AddArc(cur, fst.Arc{In: a.In, Out: a.Out, Weight: a.Weight, Next: next})
		cur = next
	}
	f.SetFinal(cur, 0)
	return f
}
