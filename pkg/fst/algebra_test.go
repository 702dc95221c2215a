package fst

import (
	"math"
	"testing"
)

// best returns the single cheapest accepting path of f, failing the test
// when f is empty.
func best(tb testing.TB, f *Fst) Path {
	tb.Helper()
	p, ok := ShortestPath(f)
	if !ok {
		tb.Fatal("transducer unexpectedly accepts nothing")
	}
	return p
}

// transduce composes an input chain with f and returns the cheapest output,
// with ok=false when f does not accept in.
func transduce(tb testing.TB, f *Fst, in string) (string, float64, bool) {
	tb.Helper()
	chain := Accep(f.Symbols(), in)
	comp, err := Compose(chain, f)
	if err != nil {
		tb.Fatalf("compose: %v", err)
	}
	p, ok := ShortestPath(comp)
	if !ok {
		return "", 0, false
	}
	return p.OutputString(f.Symbols()), p.Weight, true
}

func TestAccep_RoundTrip(t *testing.T) {
	t.Parallel()

	tab := NewSymbolTable()
	f := Accep(tab, "abc")
	p := best(t, f)
	if got := p.InputString(tab); got != "abc" {
		t.Errorf("input = %q, want abc", got)
	}
	if got := p.OutputString(tab); got != "abc" {
		t.Errorf("output = %q, want abc", got)
	}
	if p.Weight != 0 {
		t.Errorf("weight = %g, want 0", p.Weight)
	}
}

func TestAccep_EmptyString(t *testing.T) {
	t.Parallel()

	tab := NewSymbolTable()
	f := Accep(tab, "")
	p := best(t, f)
	if len(p.Arcs) != 0 || p.Weight != 0 {
		t.Errorf("empty acceptor path = %d arcs weight %g", len(p.Arcs), p.Weight)
	}
}

func TestAccepLabels_NoInterning(t *testing.T) {
	t.Parallel()

	tab := NewSymbolTable()
	labels := tab.Runes("ok")
	before := tab.Len()
	f := AccepLabels(tab, labels)
	if tab.Len() != before {
		t.Errorf("table grew from %d to %d", before, tab.Len())
	}
	if got := best(t, f).InputString(tab); got != "ok" {
		t.Errorf("input = %q, want ok", got)
	}
}

func TestCrossLabels_DeleteAndInsertChains(t *testing.T) {
	t.Parallel()

	tab := NewSymbolTable()
	labels := tab.Runes("hi")
	before := tab.Len()

	del := best(t, CrossLabels(tab, labels, nil))
	if in, out := del.InputString(tab), del.OutputString(tab); in != "hi" || out != "" {
		t.Errorf("delete chain = %q -> %q, want hi -> empty", in, out)
	}
	ins := best(t, CrossLabels(tab, nil, labels))
	if in, out := ins.InputString(tab), ins.OutputString(tab); in != "" || out != "hi" {
		t.Errorf("insert chain = %q -> %q, want empty -> hi", in, out)
	}
	if tab.Len() != before {
		t.Errorf("table grew from %d to %d", before, tab.Len())
	}
}

func TestCross_PairsRunes(t *testing.T) {
	t.Parallel()

	tab := NewSymbolTable()
	f := Cross(tab, "ab", "xyz")
	p := best(t, f)
	if in := p.InputString(tab); in != "ab" {
		t.Errorf("input = %q, want ab", in)
	}
	if out := p.OutputString(tab); out != "xyz" {
		t.Errorf("output = %q, want xyz", out)
	}
}

func TestInsertDelete(t *testing.T) {
	t.Parallel()

	tab := NewSymbolTable()
	ins := best(t, Insert(tab, "hi"))
	if ins.InputString(tab) != "" || ins.OutputString(tab) != "hi" {
		t.Errorf("insert = %q -> %q", ins.InputString(tab), ins.OutputString(tab))
	}
	del := best(t, Delete(tab, "hi"))
	if del.InputString(tab) != "hi" || del.OutputString(tab) != "" {
		t.Errorf("delete = %q -> %q", del.InputString(tab), del.OutputString(tab))
	}
}

func TestUnion_TakesMinimumWeight(t *testing.T) {
	t.Parallel()

	tab := NewSymbolTable()
	u := Union(AddWeight(Accep(tab, "a"), 2), AddWeight(Accep(tab, "a"), 1))
	if _, w, ok := transduce(t, u, "a"); !ok || w != 1 {
		t.Errorf("union weight = %g, %v; want 1, true", w, ok)
	}
}

func TestUnion_EmptyOperandsIgnored(t *testing.T) {
	t.Parallel()

	tab := NewSymbolTable()
	u := Union(New(tab), Accep(tab, "b"), nil)
	if out, _, ok := transduce(t, u, "b"); !ok || out != "b" {
		t.Errorf("union lost surviving operand: %q, %v", out, ok)
	}
	if Union().IsEmpty() != true {
		t.Error("empty union should accept nothing")
	}
}

func TestConcat_SumsWeights(t *testing.T) {
	t.Parallel()

	tab := NewSymbolTable()
	c := Concat(AddWeight(Accep(tab, "ab"), 1), AddWeight(Accep(tab, "cd"), 2))
	out, w, ok := transduce(t, c, "abcd")
	if !ok || out != "abcd" || w != 3 {
		t.Errorf("concat = %q weight %g ok %v; want abcd, 3, true", out, w, ok)
	}
	if _, _, ok := transduce(t, c, "ab"); ok {
		t.Error("concat should not accept a prefix")
	}
}

func TestConcat_EmptyLanguageAnnihilates(t *testing.T) {
	t.Parallel()

	tab := NewSymbolTable()
	if !Concat(Accep(tab, "a"), New(tab)).IsEmpty() {
		t.Error("concat with the empty language should be empty")
	}
}

func TestClosure_Star(t *testing.T) {
	t.Parallel()

	tab := NewSymbolTable()
	s := Closure(AddWeight(Accep(tab, "ab"), 1), ClosureStar)
	if _, w, ok := transduce(t, s, ""); !ok || w != 0 {
		t.Errorf("star should accept empty at 0, got %g, %v", w, ok)
	}
	if _, w, ok := transduce(t, s, "abab"); !ok || w != 2 {
		t.Errorf("star abab = %g, %v; want 2 (one weight per repetition)", w, ok)
	}
	if _, _, ok := transduce(t, s, "aba"); ok {
		t.Error("star should reject partial repetition")
	}
}

func TestClosure_PlusAndOpt(t *testing.T) {
	t.Parallel()

	tab := NewSymbolTable()
	p := Closure(Accep(tab, "x"), ClosurePlus)
	if _, _, ok := transduce(t, p, ""); ok {
		t.Error("plus should reject empty")
	}
	if _, _, ok := transduce(t, p, "xxx"); !ok {
		t.Error("plus should accept xxx")
	}

	o := Closure(Accep(tab, "x"), ClosureOpt)
	for _, in := range []string{"", "x"} {
		if _, _, ok := transduce(t, o, in); !ok {
			t.Errorf("opt should accept %q", in)
		}
	}
	if _, _, ok := transduce(t, o, "xx"); ok {
		t.Error("opt should reject xx")
	}
}

func TestClosureRange(t *testing.T) {
	t.Parallel()

	tab := NewSymbolTable()
	r := ClosureRange(Accep(tab, "a"), 2, 3)
	accepted := map[string]bool{"a": false, "aa": true, "aaa": true, "aaaa": false}
	for in, want := range accepted {
		_, _, ok := transduce(t, r, in)
		if ok != want {
			t.Errorf("range[2,3] on %q = %v, want %v", in, ok, want)
		}
	}
}

func TestClosureRange_PanicsOnBadRange(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("expected panic for hi < lo")
		}
	}()
	ClosureRange(Accep(NewSymbolTable(), "a"), 3, 1)
}

func TestInvert_SwapsSides(t *testing.T) {
	t.Parallel()

	tab := NewSymbolTable()
	inv := Invert(Cross(tab, "12", "ab"))
	out, _, ok := transduce(t, inv, "ab")
	if !ok || out != "12" {
		t.Errorf("inverted cross maps ab to %q (%v), want 12", out, ok)
	}
}

func TestProject_KeepsChosenSide(t *testing.T) {
	t.Parallel()

	tab := NewSymbolTable()
	c := Cross(tab, "12", "ab")
	pin := best(t, Project(c, ProjectInput))
	if pin.InputString(tab) != "12" || pin.OutputString(tab) != "12" {
		t.Errorf("input projection = %q -> %q", pin.InputString(tab), pin.OutputString(tab))
	}
	pout := best(t, Project(c, ProjectOutput))
	if pout.InputString(tab) != "ab" || pout.OutputString(tab) != "ab" {
		t.Errorf("output projection = %q -> %q", pout.InputString(tab), pout.OutputString(tab))
	}
}

func TestRmWeight_ZeroesEverything(t *testing.T) {
	t.Parallel()

	tab := NewSymbolTable()
	f := RmWeight(AddWeight(Accep(tab, "a"), 7))
	if _, w, ok := transduce(t, f, "a"); !ok || w != 0 {
		t.Errorf("rmweight = %g, %v; want 0, true", w, ok)
	}
}

func TestAddWeight_ShiftsAllPaths(t *testing.T) {
	t.Parallel()

	tab := NewSymbolTable()
	u := Union(Accep(tab, "a"), AddWeight(Accep(tab, "b"), 1))
	g := AddWeight(u, 5)
	if _, w, _ := transduce(t, g, "a"); w != 5 {
		t.Errorf("a weight = %g, want 5", w)
	}
	if _, w, _ := transduce(t, g, "b"); w != 6 {
		t.Errorf("b weight = %g, want 6", w)
	}
}

func TestPriorityUnion_PrefersFirst(t *testing.T) {
	t.Parallel()

	tab := NewSymbolTable()
	a := Cross(tab, "x", "1")
	b := Union(Cross(tab, "x", "2"), Cross(tab, "y", "3"))
	pu := PriorityUnion(a, b, 10)

	if out, w, _ := transduce(t, pu, "x"); out != "1" || w != 0 {
		t.Errorf("x maps to %q at %g, want 1 at 0", out, w)
	}
	// b still covers what a cannot.
	if out, w, _ := transduce(t, pu, "y"); out != "3" || w != 10 {
		t.Errorf("y maps to %q at %g, want 3 at 10", out, w)
	}
}

func TestStringMap_MapsEachPair(t *testing.T) {
	t.Parallel()

	tab := NewSymbolTable()
	m := StringMap(tab, [][2]string{{"1", "one"}, {"2", "two"}})
	if out, _, _ := transduce(t, m, "2"); out != "two" {
		t.Errorf("2 maps to %q, want two", out)
	}
	if _, _, ok := transduce(t, m, "3"); ok {
		t.Error("unmapped input should not be accepted")
	}
}

func TestSigmaOn_CoversInternedSymbols(t *testing.T) {
	t.Parallel()

	tab := NewSymbolTable()
	tab.Runes("abc")
	sigma := SigmaOn(tab)
	for _, in := range []string{"a", "b", "c"} {
		if _, _, ok := transduce(t, sigma, in); !ok {
			t.Errorf("sigma should accept %q", in)
		}
	}
	if _, _, ok := transduce(t, Concat(sigma, sigma), "ab"); !ok {
		t.Error("sigma concat should accept two symbols")
	}
}

func TestFinalWeights_NonFinalIsInf(t *testing.T) {
	t.Parallel()

	f := New(nil)
	s := f.AddState()
	if !math.IsInf(f.Final(s), 1) {
		t.Error("fresh state should be non-final")
	}
	f.SetFinal(s, 2.5)
	if !f.IsFinal(s) || f.Final(s) != 2.5 {
		t.Errorf("final weight = %g", f.Final(s))
	}
}
