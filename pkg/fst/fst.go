// Package fst implements weighted finite-state transducers over the
// tropical semiring, together with the construction algebra used to build
// text normalization grammars: union, concatenation, closure, composition,
// difference, projection, inversion, optimization and n-shortest-path
// search.
//
// A transducer is a labeled graph. Each arc carries an input label, an
// output label, a non-negative weight and a destination state; each state
// may be final with a final weight. The weight of a path is the sum of its
// arc weights plus the final weight of the state it ends in, and the weight
// of an accepted string pair is the minimum over all paths realizing it
// (min-plus, or "tropical", semiring). Lower weight means more preferred.
//
// Algebra operations are pure: they never mutate their operands and return
// freshly owned transducers. All transducers combined by an operation must
// share one [SymbolTable]; [Compose] and [Difference] enforce this and fail
// with [ErrAlphabetMismatch], matching the build-time contract that alphabet
// errors surface during grammar assembly rather than while serving.
//
// Compiled transducers are immutable and safe for unlocked concurrent use.
package fst

import "math"

// StateID indexes a state inside one Fst. States are dense: the first
// AddState returns 0, the next 1, and so on.
type StateID int32

// NoState is the start value of a transducer accepting nothing.
const NoState StateID = -1

// Arc is a single transition: consume In, emit Out, pay Weight, move to
// Next. Epsilon on either side consumes or emits nothing.
type Arc struct {
	In     Label
	Out    Label
	Weight float64
	Next   StateID
}

// Fst is a weighted finite-state transducer. The zero value is not usable;
// construct with [New] or one of the primitive constructors.
type Fst struct {
	syms   *SymbolTable
	arcs   [][]Arc
	finals []float64
	start  StateID
}

// New returns an empty transducer (no states, accepts nothing) bound to
// syms. A nil table is permitted for label-level tests; transducers with
// nil tables cannot be composed against table-bound ones.
func New(syms *SymbolTable) *Fst {
	return &Fst{syms: syms, start: NoState}
}

// Symbols returns the symbol table the transducer's labels refer to.
func (f *Fst) Symbols() *SymbolTable { return f.syms }

// AddState appends a fresh non-final state and returns its ID.
func (f *Fst) AddState() StateID {
	f.arcs = append(f.arcs, nil)
	f.finals = append(f.finals, math.Inf(1))
	return StateID(len(f.arcs) - 1)
}

// NumStates returns the number of states.
func (f *Fst) NumStates() int { return len(f.arcs) }

// SetStart marks s as the start state.
func (f *Fst) SetStart(s StateID) { f.start = s }

// Start returns the start state, or [NoState] if none is set.
func (f *Fst) Start() StateID { return f.start }

// SetFinal marks s final with weight w. Use +Inf to clear finality.
func (f *Fst) SetFinal(s StateID, w float64) { f.finals[s] = w }

// Final returns the final weight of s, +Inf when s is not final.
func (f *Fst) Final(s StateID) float64 { return f.finals[s] }

// IsFinal reports whether s is a final state.
func (f *Fst) IsFinal(s StateID) bool { return !math.IsInf(f.finals[s], 1) }

// AddArc appends an outgoing arc to s. Arc order is preserved and defines
// the canonical exploration order used for deterministic tie-breaking.
func (f *Fst) AddArc(s StateID, a Arc) {
	f.arcs[s] = append(f.arcs[s], a)
}

// Arcs returns the outgoing arcs of s. The slice is live; callers must not
// modify it.
func (f *Fst) Arcs(s StateID) []Arc { return f.arcs[s] }

// Copy returns a deep copy sharing only the symbol table.
func (f *Fst) Copy() *Fst {
	c := &Fst{
		syms:   f.syms,
		arcs:   make([][]Arc, len(f.arcs)),
		finals: make([]float64, len(f.finals)),
		start:  f.start,
	}
	copy(c.finals, f.finals)
	for s, as := range f.arcs {
		if len(as) == 0 {
			continue
		}
		c.arcs[s] = make([]Arc, len(as))
		copy(c.arcs[s], as)
	}
	return c
}

// IsEmpty reports whether the transducer accepts nothing, i.e. no final
// state is reachable from the start. Empty results are a normal outcome of
// composition and difference, not an error.
func (f *Fst) IsEmpty() bool {
	if f.start == NoState {
		return true
	}
	seen := make([]bool, len(f.arcs))
	stack := []StateID{f.start}
	seen[f.start] = true
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.IsFinal(s) {
			return false
		}
		for _, a := range f.arcs[s] {
			if !seen[a.Next] {
				seen[a.Next] = true
				stack = append(stack, a.Next)
			}
		}
	}
	return true
}

// graft appends src's states into f and returns the offset that was added
// to every copied state ID. Final weights are copied as-is.
func (f *Fst) graft(src *Fst) StateID {
	off := StateID(len(f.arcs))
	for s := range src.arcs {
		ns := f.AddState()
		f.finals[ns] = src.finals[s]
		for _, a := range src.arcs[s] {
			f.arcs[ns] = append(f.arcs[ns], Arc{a.In, a.Out, a.Weight, a.Next + off})
		}
	}
	return off
}

// symsOf returns the first non-nil symbol table among the operands.
func symsOf(fsts []*Fst) *SymbolTable {
	for _, f := range fsts {
		if f != nil && f.syms != nil {
			return f.syms
		}
	}
	return nil
}
