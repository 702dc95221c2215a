package fst

import (
	"fmt"
	"math"
)

// ───────────────────────── primitive constructors ─────────────────────────

// Accep returns an acceptor for the string s: a linear chain of identity
// arcs, one per rune, all weight 0. Runes are interned into t. The empty
// string yields a single final state accepting only epsilon.
func Accep(t *SymbolTable, s string) *Fst {
	f := New(t)
	cur := f.AddState()
	f.SetStart(cur)
	for _, l := range t.Runes(s) {
		next := f.AddState()
		f.AddArc(cur, Arc{In: l, Out: l, Next: next})
		cur = next
	}
	f.SetFinal(cur, 0)
	return f
}

// AccepLabels returns an acceptor for a pre-resolved label chain. Unlike
// [Accep] it never interns, which is what request-time code uses against a
// frozen grammar table.
func AccepLabels(t *SymbolTable, labels []Label) *Fst {
	f := New(t)
	cur := f.AddState()
	f.SetStart(cur)
	for _, l := range labels {
		next := f.AddState()
		f.AddArc(cur, Arc{In: l, Out: l, Next: next})
		cur = next
	}
	f.SetFinal(cur, 0)
	return f
}

// CrossLabels returns a transducer mapping exactly the in chain to the out
// chain with weight 0, pairing labels positionally like [Cross]. Like
// [AccepLabels] it never interns. A nil side consumes or emits nothing,
// which is how request-time code builds delete and insert chains against a
// frozen table.
func CrossLabels(t *SymbolTable, in, out []Label) *Fst {
	f := New(t)
	cur := f.AddState()
	f.SetStart(cur)
	n := len(in)
	if len(out) > n {
		n = len(out)
	}
	for i := 0; i < n; i++ {
		a := Arc{In: Epsilon, Out: Epsilon}
		if i < len(in) {
			a.In = in[i]
		}
		if i < len(out) {
			a.Out = out[i]
		}
		next := f.AddState()
		a.Next = next
		f.AddArc(cur, a)
		cur = next
	}
	f.SetFinal(cur, 0)
	return f
}

// Cross returns a transducer mapping exactly the string in to the string
// out with weight 0. Runes are paired positionally; the longer side's tail
// rides on epsilon arcs.
func Cross(t *SymbolTable, in, out string) *Fst {
	ins := t.Runes(in)
	outs := t.Runes(out)
	f := New(t)
	cur := f.AddState()
	f.SetStart(cur)
	n := len(ins)
	if len(outs) > n {
		n = len(outs)
	}
	for i := 0; i < n; i++ {
		a := Arc{In: Epsilon, Out: Epsilon}
		if i < len(ins) {
			a.In = ins[i]
		}
		if i < len(outs) {
			a.Out = outs[i]
		}
		next := f.AddState()
		a.Next = next
		f.AddArc(cur, a)
		cur = next
	}
	f.SetFinal(cur, 0)
	return f
}

// Insert returns a transducer that consumes nothing and emits s.
func Insert(t *SymbolTable, s string) *Fst { return Cross(t, "", s) }

// Delete returns a transducer that consumes s and emits nothing.
func Delete(t *SymbolTable, s string) *Fst { return Cross(t, s, "") }

// StringMap returns the union of Cross(in, out) for every pair, in order.
// Pairs are given as an ordered slice rather than a map so that repeated
// builds produce identical transducers.
func StringMap(t *SymbolTable, pairs [][2]string) *Fst {
	fsts := make([]*Fst, len(pairs))
	for i, p := range pairs {
		fsts[i] = Cross(t, p[0], p[1])
	}
	u := Union(fsts...)
	if u.syms == nil {
		u.syms = t
	}
	return u
}

// SigmaOn returns a single-symbol identity acceptor over every non-epsilon
// symbol interned in t at call time. Symbols added to t later are not
// covered; grammars should intern their full alphabet first.
func SigmaOn(t *SymbolTable) *Fst {
	f := New(t)
	s0 := f.AddState()
	s1 := f.AddState()
	f.SetStart(s0)
	f.SetFinal(s1, 0)
	for l := Label(1); int(l) < t.Len(); l++ {
		f.AddArc(s0, Arc{In: l, Out: l, Next: s1})
	}
	return f
}

// ───────────────────────────── rational algebra ────────────────────────────

// Union returns a transducer accepting any pair accepted by an operand; the
// weight of a pair is the minimum over the operands accepting it. Nil and
// empty-language operands contribute nothing. Union of zero operands is the
// empty language.
func Union(fsts ...*Fst) *Fst {
	u := New(symsOf(fsts))
	s0 := u.AddState()
	u.SetStart(s0)
	for _, f := range fsts {
		if f == nil || f.start == NoState {
			continue
		}
		off := u.graft(f)
		u.AddArc(s0, Arc{In: Epsilon, Out: Epsilon, Next: f.start + off})
	}
	return u
}

// Concat returns a transducer accepting the concatenations of its operands'
// pairs, weights summed. Concat of zero operands accepts only epsilon. If
// any operand is the empty language the result is empty.
func Concat(fsts ...*Fst) *Fst {
	res := epsilonMachine(symsOf(fsts))
	for _, f := range fsts {
		res = concat2(res, f)
	}
	return res
}

func concat2(a, b *Fst) *Fst {
	c := New(symsOf([]*Fst{a, b}))
	if a == nil || b == nil || a.start == NoState || b.start == NoState {
		return c
	}
	offA := c.graft(a)
	offB := c.graft(b)
	for s := range a.arcs {
		sa := StateID(s) + offA
		if !c.IsFinal(sa) {
			continue
		}
		c.AddArc(sa, Arc{In: Epsilon, Out: Epsilon, Weight: c.finals[sa], Next: b.start + offB})
		c.SetFinal(sa, math.Inf(1))
	}
	c.SetStart(a.start + offA)
	return c
}

// epsilonMachine accepts exactly the empty string with weight 0.
func epsilonMachine(t *SymbolTable) *Fst {
	f := New(t)
	s := f.AddState()
	f.SetStart(s)
	f.SetFinal(s, 0)
	return f
}

// ClosureType selects the repetition semantics of [Closure].
type ClosureType int

const (
	// ClosureStar accepts zero or more repetitions.
	ClosureStar ClosureType = iota
	// ClosurePlus accepts one or more repetitions.
	ClosurePlus
	// ClosureOpt accepts zero or one repetition.
	ClosureOpt
)

// Closure returns the Kleene closure of f. Each accepted repetition pays
// its own path weight; the empty repetition of star and opt has weight 0.
func Closure(f *Fst, ct ClosureType) *Fst {
	switch ct {
	case ClosurePlus:
		return Concat(f, Closure(f, ClosureStar))
	case ClosureOpt:
		return Union(f, epsilonMachine(f.syms))
	}
	c := New(f.syms)
	s0 := c.AddState()
	c.SetStart(s0)
	c.SetFinal(s0, 0)
	if f.start == NoState {
		return c
	}
	off := c.graft(f)
	c.AddArc(s0, Arc{In: Epsilon, Out: Epsilon, Next: f.start + off})
	for s := range f.arcs {
		cs := StateID(s) + off
		if !c.IsFinal(cs) {
			continue
		}
		c.AddArc(cs, Arc{In: Epsilon, Out: Epsilon, Weight: c.finals[cs], Next: s0})
		c.SetFinal(cs, math.Inf(1))
	}
	return c
}

// ClosureRange returns between lo and hi repetitions of f, inclusive.
// Panics if lo < 0 or hi < lo; these are authoring bugs, not data errors.
func ClosureRange(f *Fst, lo, hi int) *Fst {
	if lo < 0 || hi < lo {
		panic(fmt.Sprintf("fst: invalid closure range [%d, %d]", lo, hi))
	}
	parts := make([]*Fst, 0, hi)
	for i := 0; i < lo; i++ {
		parts = append(parts, f)
	}
	for i := lo; i < hi; i++ {
		parts = append(parts, Closure(f, ClosureOpt))
	}
	if len(parts) == 0 {
		return epsilonMachine(f.syms)
	}
	return Concat(parts...)
}

// Invert returns f with input and output labels swapped, turning a
// written-to-spoken transducer into its spoken-to-written mirror.
func Invert(f *Fst) *Fst {
	c := f.Copy()
	for s := range c.arcs {
		for i := range c.arcs[s] {
			c.arcs[s][i].In, c.arcs[s][i].Out = c.arcs[s][i].Out, c.arcs[s][i].In
		}
	}
	return c
}

// ProjectSide selects which label side [Project] keeps.
type ProjectSide int

const (
	// ProjectInput copies input labels onto both sides.
	ProjectInput ProjectSide = iota
	// ProjectOutput copies output labels onto both sides.
	ProjectOutput
)

// Project returns the acceptor of f's input or output language.
func Project(f *Fst, side ProjectSide) *Fst {
	c := f.Copy()
	for s := range c.arcs {
		for i := range c.arcs[s] {
			if side == ProjectInput {
				c.arcs[s][i].Out = c.arcs[s][i].In
			} else {
				c.arcs[s][i].In = c.arcs[s][i].Out
			}
		}
	}
	return c
}

// RmWeight returns f with every arc and final weight set to 0, keeping the
// accepted language but forgetting preferences.
func RmWeight(f *Fst) *Fst {
	c := f.Copy()
	for s := range c.arcs {
		for i := range c.arcs[s] {
			c.arcs[s][i].Weight = 0
		}
		if c.IsFinal(StateID(s)) {
			c.finals[s] = 0
		}
	}
	return c
}

// AddWeight returns f with w added to every final weight, raising the cost
// of every accepted pair by exactly w. w must be non-negative to preserve
// the semiring invariant; grammar assembly validates this before calling.
func AddWeight(f *Fst, w float64) *Fst {
	c := f.Copy()
	for s := range c.finals {
		if c.IsFinal(StateID(s)) {
			c.finals[s] += w
		}
	}
	return c
}

// PriorityUnion returns Union(a, AddWeight(b, bias)): both interpretations
// stay available, but a wins whenever both match at equal underlying
// weight. bias must be non-negative.
func PriorityUnion(a, b *Fst, bias float64) *Fst {
	return Union(a, AddWeight(b, bias))
}
