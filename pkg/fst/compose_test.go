package fst

import (
	"errors"
	"testing"
)

func TestCompose_ChainsTransductions(t *testing.T) {
	t.Parallel()

	tab := NewSymbolTable()
	ab := Cross(tab, "abc", "xyz")
	bc := Cross(tab, "xyz", "123")
	comp, err := Compose(ab, bc)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	p := best(t, comp)
	if in, out := p.InputString(tab), p.OutputString(tab); in != "abc" || out != "123" {
		t.Errorf("composed %q -> %q, want abc -> 123", in, out)
	}
}

func TestCompose_SumsWeights(t *testing.T) {
	t.Parallel()

	tab := NewSymbolTable()
	a := AddWeight(Cross(tab, "a", "b"), 1.5)
	b := AddWeight(Cross(tab, "b", "c"), 2.25)
	comp, err := Compose(a, b)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if p := best(t, comp); p.Weight != 3.75 {
		t.Errorf("weight = %g, want 3.75", p.Weight)
	}
}

func TestCompose_MinimizesOverMiddleString(t *testing.T) {
	t.Parallel()

	tab := NewSymbolTable()
	a := Union(AddWeight(Cross(tab, "x", "p"), 5), AddWeight(Cross(tab, "x", "q"), 1))
	b := Union(AddWeight(Cross(tab, "p", "z"), 1), AddWeight(Cross(tab, "q", "z"), 2))
	comp, err := Compose(a, b)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	// Via p: 5+1=6. Via q: 1+2=3.
	if p := best(t, comp); p.Weight != 3 {
		t.Errorf("best middle choice weight = %g, want 3", p.Weight)
	}
}

func TestCompose_EpsilonMoves(t *testing.T) {
	t.Parallel()

	tab := NewSymbolTable()
	comp, err := Compose(Delete(tab, "a"), Insert(tab, "z"))
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	p := best(t, comp)
	if in, out := p.InputString(tab), p.OutputString(tab); in != "a" || out != "z" {
		t.Errorf("composed %q -> %q, want a -> z", in, out)
	}
}

func TestCompose_SingleEpsilonInterleaving(t *testing.T) {
	t.Parallel()

	// Two epsilon-output moves against two epsilon-input moves admit six
	// interleavings; the sequencing filter must keep exactly one path.
	tab := NewSymbolTable()
	comp, err := Compose(Delete(tab, "ab"), Insert(tab, "yz"))
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	paths := ShortestPaths(comp, 10)
	if len(paths) != 1 {
		t.Fatalf("got %d paths, want exactly 1 canonical interleaving", len(paths))
	}
	p := paths[0]
	if in, out := p.InputString(tab), p.OutputString(tab); in != "ab" || out != "yz" {
		t.Errorf("composed %q -> %q, want ab -> yz", in, out)
	}
}

func TestCompose_AlphabetMismatch(t *testing.T) {
	t.Parallel()

	a := Accep(NewSymbolTable(), "a")
	b := Accep(NewSymbolTable(), "a")
	if _, err := Compose(a, b); !errors.Is(err, ErrAlphabetMismatch) {
		t.Errorf("composing across tables: err = %v, want ErrAlphabetMismatch", err)
	}
}

func TestCompose_EmptyResultIsNotAnError(t *testing.T) {
	t.Parallel()

	tab := NewSymbolTable()
	comp, err := Compose(Accep(tab, "a"), Accep(tab, "b"))
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if !comp.IsEmpty() {
		t.Error("disjoint composition should be the empty language")
	}
}

func TestCompose_EmptyOperand(t *testing.T) {
	t.Parallel()

	tab := NewSymbolTable()
	comp, err := Compose(New(tab), Accep(tab, "a"))
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if !comp.IsEmpty() {
		t.Error("composition with empty operand should be empty")
	}
}

func TestDifference_SubtractsLanguage(t *testing.T) {
	t.Parallel()

	tab := NewSymbolTable()
	abc := Union(Accep(tab, "a"), Accep(tab, "b"), Accep(tab, "c"))
	diff, err := Difference(abc, Accep(tab, "b"))
	if err != nil {
		t.Fatalf("difference: %v", err)
	}
	for in, want := range map[string]bool{"a": true, "b": false, "c": true} {
		_, _, ok := transduce(t, diff, in)
		if ok != want {
			t.Errorf("difference accepts %q = %v, want %v", in, ok, want)
		}
	}
}

func TestDifference_KeepsMinuendWeights(t *testing.T) {
	t.Parallel()

	tab := NewSymbolTable()
	weighted := Union(AddWeight(Accep(tab, "a"), 4), Accep(tab, "b"))
	diff, err := Difference(weighted, Accep(tab, "b"))
	if err != nil {
		t.Fatalf("difference: %v", err)
	}
	if _, w, ok := transduce(t, diff, "a"); !ok || w != 4 {
		t.Errorf("a weight = %g, %v; want 4, true", w, ok)
	}
}

func TestDifference_RejectsWeightedSubtrahend(t *testing.T) {
	t.Parallel()

	tab := NewSymbolTable()
	_, err := Difference(Accep(tab, "a"), AddWeight(Accep(tab, "a"), 1))
	if !errors.Is(err, ErrNotAcceptor) {
		t.Errorf("err = %v, want ErrNotAcceptor", err)
	}
}

func TestDifference_RejectsTransducerSubtrahend(t *testing.T) {
	t.Parallel()

	tab := NewSymbolTable()
	_, err := Difference(Accep(tab, "a"), Cross(tab, "a", "b"))
	if !errors.Is(err, ErrNotAcceptor) {
		t.Errorf("err = %v, want ErrNotAcceptor", err)
	}
}

func TestDifference_AlphabetMismatch(t *testing.T) {
	t.Parallel()

	_, err := Difference(Accep(NewSymbolTable(), "a"), Accep(NewSymbolTable(), "a"))
	if !errors.Is(err, ErrAlphabetMismatch) {
		t.Errorf("err = %v, want ErrAlphabetMismatch", err)
	}
}
