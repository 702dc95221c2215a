package fst

import (
	"context"
	"errors"
	"testing"
)

func TestConnect_TrimsUnreachableAndDead(t *testing.T) {
	t.Parallel()

	tab := NewSymbolTable()
	f := Accep(tab, "ab")
	// A dead-end arc and an orphan state.
	dead := f.AddState()
	f.AddArc(f.Start(), Arc{In: tab.Add("x"), Out: tab.Add("x"), Next: dead})
	f.AddState()

	c := Connect(f)
	if c.NumStates() != 3 {
		t.Errorf("connected states = %d, want 3", c.NumStates())
	}
	if out, _, ok := transduce(t, c, "ab"); !ok || out != "ab" {
		t.Errorf("language changed: %q, %v", out, ok)
	}
}

func TestConnect_EmptyLanguage(t *testing.T) {
	t.Parallel()

	f := New(NewSymbolTable())
	s := f.AddState()
	f.SetStart(s) // no finals
	c := Connect(f)
	if c.Start() != NoState || c.NumStates() != 0 {
		t.Errorf("connect of empty language: start=%d states=%d", c.Start(), c.NumStates())
	}
}

func TestRemoveEpsilon_DropsPureEpsilonArcs(t *testing.T) {
	t.Parallel()

	tab := NewSymbolTable()
	u := Union(AddWeight(Accep(tab, "a"), 1), AddWeight(Accep(tab, "b"), 2))
	r := RemoveEpsilon(u)
	for s := 0; s < r.NumStates(); s++ {
		for _, a := range r.Arcs(StateID(s)) {
			if a.In == Epsilon && a.Out == Epsilon {
				t.Fatalf("state %d still has a pure epsilon arc", s)
			}
		}
	}
	if _, w, ok := transduce(t, r, "a"); !ok || w != 1 {
		t.Errorf("a weight = %g, %v; want 1, true", w, ok)
	}
	if _, w, ok := transduce(t, r, "b"); !ok || w != 2 {
		t.Errorf("b weight = %g, %v; want 2, true", w, ok)
	}
}

func TestRemoveEpsilon_KeepsSingleSidedEpsilon(t *testing.T) {
	t.Parallel()

	tab := NewSymbolTable()
	f := RemoveEpsilon(Concat(Delete(tab, "a"), Insert(tab, "z")))
	p := best(t, f)
	if in, out := p.InputString(tab), p.OutputString(tab); in != "a" || out != "z" {
		t.Errorf("transduction broken: %q -> %q", in, out)
	}
}

func TestOptimize_PreservesWeightedLanguage(t *testing.T) {
	t.Parallel()

	tab := NewSymbolTable()
	g := Union(
		AddWeight(Cross(tab, "1", "one"), 3),
		AddWeight(Cross(tab, "1", "one"), 1),
		AddWeight(Cross(tab, "2", "two"), 2),
	)
	opt, err := Optimize(context.Background(), g)
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	if out, w, ok := transduce(t, opt, "1"); !ok || out != "one" || w != 1 {
		t.Errorf("1 -> %q at %g (%v), want one at 1", out, w, ok)
	}
	if out, w, ok := transduce(t, opt, "2"); !ok || out != "two" || w != 2 {
		t.Errorf("2 -> %q at %g (%v), want two at 2", out, w, ok)
	}
	if _, _, ok := transduce(t, opt, "3"); ok {
		t.Error("optimize invented an accepted string")
	}
}

func TestOptimize_ShrinksRedundantUnion(t *testing.T) {
	t.Parallel()

	tab := NewSymbolTable()
	var parts []*Fst
	for i := 0; i < 8; i++ {
		parts = append(parts, Cross(tab, "abc", "xyz"))
	}
	g := Union(parts...)
	opt, err := Optimize(context.Background(), g)
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	if opt.NumStates() >= g.NumStates() {
		t.Errorf("optimize did not shrink: %d -> %d states", g.NumStates(), opt.NumStates())
	}
	p := best(t, opt)
	if in, out := p.InputString(tab), p.OutputString(tab); in != "abc" || out != "xyz" {
		t.Errorf("optimized transduction = %q -> %q", in, out)
	}
}

func TestOptimize_EmptyLanguage(t *testing.T) {
	t.Parallel()

	opt, err := Optimize(context.Background(), New(NewSymbolTable()))
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	if !opt.IsEmpty() {
		t.Error("optimized empty language should stay empty")
	}
}

func TestOptimize_StateLimit(t *testing.T) {
	t.Parallel()

	tab := NewSymbolTable()
	g := Union(Accep(tab, "abcdef"), Accep(tab, "ghijkl"))
	_, err := Optimize(context.Background(), g, WithStateLimit(3))
	if !errors.Is(err, ErrStateLimit) {
		t.Errorf("err = %v, want ErrStateLimit", err)
	}
}

func TestOptimize_ContextCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Optimize(ctx, Accep(NewSymbolTable(), "abc"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestOptimize_Determinism(t *testing.T) {
	t.Parallel()

	build := func() *Fst {
		tab := NewSymbolTable()
		g := Union(
			Cross(tab, "10", "ten"),
			Cross(tab, "12", "twelve"),
			AddWeight(Cross(tab, "10", "one zero"), 2),
		)
		opt, err := Optimize(context.Background(), g)
		if err != nil {
			t.Fatalf("optimize: %v", err)
		}
		return opt
	}
	a, b := build(), build()
	if a.NumStates() != b.NumStates() {
		t.Fatalf("state counts differ across identical builds: %d vs %d", a.NumStates(), b.NumStates())
	}
	for s := 0; s < a.NumStates(); s++ {
		as, bs := a.Arcs(StateID(s)), b.Arcs(StateID(s))
		if len(as) != len(bs) {
			t.Fatalf("arc counts differ at state %d", s)
		}
		for i := range as {
			if as[i] != bs[i] {
				t.Fatalf("arc %d at state %d differs: %v vs %v", i, s, as[i], bs[i])
			}
		}
	}
}
