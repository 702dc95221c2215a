package fst

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// ErrAlphabetMismatch is returned when two transducers built over different
// symbol tables are composed or differenced. Label spaces from different
// tables are incomparable, so the operation cannot be given a meaning. This
// is a grammar assembly bug and must surface at build time.
var ErrAlphabetMismatch = errors.New("fst: alphabet mismatch")

// ErrNotAcceptor is returned by [Difference] when the subtrahend is not an
// unweighted acceptor.
var ErrNotAcceptor = errors.New("fst: operand is not an unweighted acceptor")

// Epsilon-sequencing composition filter states. Between two matched moves
// the filter admits exactly one interleaving of epsilon moves: first every
// a-side move (output epsilon), then every b-side move (input epsilon).
// Other interleavings of the same move multiset reach the same composite
// state with the same weight, so discarding them keeps the weighted
// relation intact while avoiding redundant paths.
const (
	filterFree  = 0 // last move was a match (or start)
	filterASide = 1 // inside a run of a-only moves; b-only switches to 2
	filterBSide = 2 // inside a run of b-only moves; a-only is blocked
)

// Compose returns the composition a∘b: it accepts (x, z) whenever a maps x
// to some y and b maps y to z, with the weight of the witnessing paths
// summed and minimized over choices of y. a's output labels are matched
// against b's input labels, so both operands must share one symbol table;
// composing across tables fails with [ErrAlphabetMismatch].
//
// The result is trimmed: an empty result (no accepting path) is returned
// as an empty transducer, which is the normal "no match" outcome.
func Compose(a, b *Fst) (*Fst, error) {
	if err := checkAlphabets(a, b); err != nil {
		return nil, err
	}
	res := New(symsOf([]*Fst{a, b}))
	if a.start == NoState || b.start == NoState {
		return res, nil
	}

	type key struct {
		a, b   StateID
		filter uint8
	}
	states := map[key]StateID{}
	queue := []key{{a.start, b.start, filterFree}}
	start := res.AddState()
	states[queue[0]] = start
	res.SetStart(start)

	stateOf := func(k key) StateID {
		if s, ok := states[k]; ok {
			return s
		}
		s := res.AddState()
		states[k] = s
		queue = append(queue, k)
		return s
	}

	for len(queue) > 0 {
		k := queue[0]
		queue = queue[1:]
		s := states[k]

		if fa, fb := a.Final(k.a), b.Final(k.b); !math.IsInf(fa, 1) && !math.IsInf(fb, 1) {
			res.SetFinal(s, fa+fb)
		}

		arcsA := a.Arcs(k.a)
		arcsB := b.Arcs(k.b)

		// Matched moves reset the filter.
		for _, aa := range arcsA {
			if aa.Out == Epsilon {
				continue
			}
			for _, ab := range arcsB {
				if ab.In != aa.Out {
					continue
				}
				next := stateOf(key{aa.Next, ab.Next, filterFree})
				res.AddArc(s, Arc{In: aa.In, Out: ab.Out, Weight: aa.Weight + ab.Weight, Next: next})
			}
		}

		// a-only moves: a emits epsilon, b stays. Blocked once a b-only
		// run has started.
		if k.filter != filterBSide {
			for _, aa := range arcsA {
				if aa.Out != Epsilon {
					continue
				}
				next := stateOf(key{aa.Next, k.b, filterASide})
				res.AddArc(s, Arc{In: aa.In, Out: Epsilon, Weight: aa.Weight, Next: next})
			}
		}

		// b-only moves: b consumes epsilon, a stays.
		for _, ab := range arcsB {
			if ab.In != Epsilon {
				continue
			}
			next := stateOf(key{k.a, ab.Next, filterBSide})
			res.AddArc(s, Arc{In: Epsilon, Out: ab.Out, Weight: ab.Weight, Next: next})
		}
	}

	return Connect(res), nil
}

// Difference returns the strings accepted by a but not by b, keeping a's
// weights. b must be an unweighted acceptor (identity labels, all weights
// zero); it is determinized and complemented over the shared alphabet
// internally. Fails with [ErrNotAcceptor] otherwise and with
// [ErrAlphabetMismatch] for operands from different tables.
func Difference(a, b *Fst) (*Fst, error) {
	if err := checkAlphabets(a, b); err != nil {
		return nil, err
	}
	if err := checkUnweightedAcceptor(b); err != nil {
		return nil, err
	}

	alphabet := alphabetOf(a, b)
	neg, err := complement(b, alphabet)
	if err != nil {
		return nil, err
	}
	return Compose(a, neg)
}

// complement determinizes acc over alphabet, completes it with a dead
// state, and flips finality.
func complement(acc *Fst, alphabet []Label) (*Fst, error) {
	det, err := determinize(context.Background(), RemoveEpsilon(acc), 0)
	if err != nil {
		return nil, err
	}
	c := det.Copy()
	if c.start == NoState {
		// Empty acceptor: complement is the universal acceptor.
		c = New(acc.syms)
		c.SetStart(c.AddState())
	}
	dead := c.AddState()
	for s := range c.arcs {
		present := map[Label]bool{}
		for _, a := range c.arcs[s] {
			present[a.In] = true
		}
		for _, l := range alphabet {
			if !present[l] {
				c.AddArc(StateID(s), Arc{In: l, Out: l, Next: dead})
			}
		}
	}
	for s := range c.finals {
		if c.IsFinal(StateID(s)) {
			c.SetFinal(StateID(s), math.Inf(1))
		} else {
			c.SetFinal(StateID(s), 0)
		}
	}
	return c, nil
}

// alphabetOf returns the non-epsilon label universe for a difference: the
// shared table's symbols when one is bound, otherwise every label seen on
// either operand.
func alphabetOf(a, b *Fst) []Label {
	if t := symsOf([]*Fst{a, b}); t != nil {
		out := make([]Label, 0, t.Len()-1)
		for l := Label(1); int(l) < t.Len(); l++ {
			out = append(out, l)
		}
		return out
	}
	seen := map[Label]bool{}
	var out []Label
	collect := func(f *Fst) {
		for s := range f.arcs {
			for _, arc := range f.arcs[s] {
				for _, l := range []Label{arc.In, arc.Out} {
					if l != Epsilon && !seen[l] {
						seen[l] = true
						out = append(out, l)
					}
				}
			}
		}
	}
	collect(a)
	collect(b)
	return out
}

func checkUnweightedAcceptor(f *Fst) error {
	for s := range f.arcs {
		for _, a := range f.arcs[s] {
			if a.In != a.Out {
				return fmt.Errorf("%w: state %d has arc %v:%v", ErrNotAcceptor, s, a.In, a.Out)
			}
			if a.Weight != 0 {
				return fmt.Errorf("%w: state %d has arc weight %g", ErrNotAcceptor, s, a.Weight)
			}
		}
		if f.IsFinal(StateID(s)) && f.finals[s] != 0 {
			return fmt.Errorf("%w: state %d has final weight %g", ErrNotAcceptor, s, f.finals[s])
		}
	}
	return nil
}

func checkAlphabets(a, b *Fst) error {
	if a.syms == b.syms {
		return nil
	}
	return fmt.Errorf("%w: operands use different symbol tables (%d and %d symbols)",
		ErrAlphabetMismatch, tableLen(a.syms), tableLen(b.syms))
}

func tableLen(t *SymbolTable) int {
	if t == nil {
		return 0
	}
	return t.Len()
}
