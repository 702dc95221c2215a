package classify

import (
	"context"
	"errors"
	"testing"

	"github.com/sicoreai/NeMo-text-processing/internal/grammartest"
	"github.com/sicoreai/NeMo-text-processing/pkg/fst"
	"github.com/sicoreai/NeMo-text-processing/pkg/grammar"
	"github.com/sicoreai/NeMo-text-processing/pkg/semiotic"
)

// permSource tags "x" as pair { left: "ex" right: "why" } in both field
// orders at equal weight, so the tagger itself produces permuted
// duplicates of one reading.
type permSource struct{}

func (permSource) Language() string { return "zz" }
func (permSource) Version() string  { return "perm-1" }

func (permSource) Classes(dir grammar.Direction) []grammar.Class {
	if dir != grammar.TextToSpoken {
		return nil
	}
	return []grammar.Class{{
		Name:   "pair",
		Weight: 1,
		Tagger: func(k *grammar.Kit) (*fst.Fst, error) {
			left := k.EmitField("left", k.Cross("x", "ex"))
			right := k.EmitField("right", k.Insert("why"))
			leftFirst := fst.Concat(left, k.InsertSpace(), right)
			rightFirst := fst.Concat(k.EmitField("right", k.Insert("why")), k.InsertSpace(), k.EmitField("left", k.Cross("x", "ex")))
			return k.EmitClass("pair", fst.Union(leftFirst, rightFirst)), nil
		},
		Verbalizer: func(k *grammar.Kit) (*fst.Fst, error) {
			value := fst.Closure(k.NotQuote(), fst.ClosurePlus)
			body := fst.Concat(k.ReadField("left", value), k.Accep(" "), k.ReadField("right", value))
			return k.ReadClass("pair", body), nil
		},
	}}
}

func TestClassifier_TagsSingleToken(t *testing.T) {
	t.Parallel()

	c := New(grammartest.Compile(t, grammar.TextToSpoken))
	cands, err := c.Candidates("1", 1)
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	if len(cands) != 1 {
		t.Fatalf("got %d candidates, want 1", len(cands))
	}
	best := cands[0]
	if want := `tokens { number { integer: "one" } }`; best.Tagged != want {
		t.Errorf("tagged = %q, want %q", best.Tagged, want)
	}
	if len(best.Sequence) != 1 || best.Sequence[0].Class != "number" {
		t.Errorf("sequence = %+v", best.Sequence)
	}
}

func TestClassifier_RanksSpecificClassFirst(t *testing.T) {
	t.Parallel()

	c := New(grammartest.Compile(t, grammar.TextToSpoken))
	cands, err := c.Candidates("1", 2)
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	if len(cands) != 2 {
		t.Fatalf("got %d candidates, want number and word readings", len(cands))
	}
	if cands[0].Sequence[0].Class != "number" {
		t.Errorf("best class = %q, want number", cands[0].Sequence[0].Class)
	}
	if cands[1].Sequence[0].Class != "" {
		t.Errorf("second class = %q, want bare word token", cands[1].Sequence[0].Class)
	}
	if cands[0].Cost > cands[1].Cost {
		t.Errorf("weights out of order: %g then %g", cands[0].Cost, cands[1].Cost)
	}
}

func TestClassifier_MultiTokenInput(t *testing.T) {
	t.Parallel()

	c := New(grammartest.Compile(t, grammar.TextToSpoken))
	cands, err := c.Candidates("1 hi 2", 1)
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	if len(cands) != 1 {
		t.Fatalf("got %d candidates, want 1", len(cands))
	}
	seq := cands[0].Sequence
	if len(seq) != 3 {
		t.Fatalf("got %d tokens, want 3", len(seq))
	}
	if seq[0].Class != "number" || !seq[1].IsLiteral() || seq[2].Class != "number" {
		t.Errorf("sequence = %+v", seq)
	}
	if seq[1].LiteralText() != "hi" {
		t.Errorf("literal = %q, want hi", seq[1].LiteralText())
	}
}

func TestClassifier_NormalizesInput(t *testing.T) {
	t.Parallel()

	c := New(grammartest.Compile(t, grammar.TextToSpoken))
	// Leading and trailing spaces trim away; interior runs collapse.
	cands, err := c.Candidates("  1   2  ", 1)
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	if len(cands) != 1 || len(cands[0].Sequence) != 2 {
		t.Fatalf("candidates = %+v", cands)
	}
}

func TestClassifier_NoMatchOutcomes(t *testing.T) {
	t.Parallel()

	c := New(grammartest.Compile(t, grammar.TextToSpoken))
	tests := []struct {
		name  string
		input string
	}{
		{"unknown symbol", "…"},
		{"empty", ""},
		{"spaces only", "   "},
		{"interior newline", "1\n2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cands, err := c.Candidates(tt.input, 1)
			if err != nil {
				t.Fatalf("no match must not be an error, got %v", err)
			}
			if cands != nil {
				t.Errorf("got %+v, want nil candidate set", cands)
			}
		})
	}
}

func TestClassifier_TwoDistinctReadings(t *testing.T) {
	t.Parallel()

	c := New(grammartest.Compile(t, grammar.TextToSpoken))
	// The span reading and the word reading are the only two; asking for
	// more must not invent others.
	cands, err := c.Candidates("1-2", 4)
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	if len(cands) != 2 {
		t.Fatalf("got %d candidates, want 2 distinct readings", len(cands))
	}
	if cands[0].Sequence[0].Class != "span" {
		t.Errorf("best class = %q, want span", cands[0].Sequence[0].Class)
	}
	if cands[0].Identity == cands[1].Identity {
		t.Error("distinct readings must not share an identity")
	}
}

func TestClassifier_DedupsPermutedTaggings(t *testing.T) {
	t.Parallel()

	g, err := grammar.Assemble(context.Background(), permSource{}, grammar.TextToSpoken)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	c := New(g)
	cands, err := c.Candidates("x", 4)
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	if len(cands) != 1 {
		t.Fatalf("got %d candidates, want the two field orders collapsed into 1", len(cands))
	}
	if len(cands[0].Sequence) != 1 || cands[0].Sequence[0].Class != "pair" {
		t.Errorf("sequence = %+v", cands[0].Sequence)
	}
}

func TestClassifier_SpokenToText(t *testing.T) {
	t.Parallel()

	c := New(grammartest.Compile(t, grammar.SpokenToText))
	cands, err := c.Candidates("one two", 1)
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	if len(cands) != 1 {
		t.Fatalf("got %d candidates, want 1", len(cands))
	}
	seq := cands[0].Sequence
	if len(seq) != 2 || seq[0].Fields[0].Value != "1" || seq[1].Fields[0].Value != "2" {
		t.Errorf("sequence = %+v", seq)
	}
}

func TestClassifier_ZeroK(t *testing.T) {
	t.Parallel()

	c := New(grammartest.Compile(t, grammar.TextToSpoken))
	cands, err := c.Candidates("1", 0)
	if err != nil || cands != nil {
		t.Errorf("k=0 should be a silent no-op, got %+v, %v", cands, err)
	}
}

func TestClassifier_UnregisteredClassIsMalformed(t *testing.T) {
	t.Parallel()

	g := grammartest.Compile(t, grammar.TextToSpoken)
	broken := *g
	broken.Policies = map[string]semiotic.OrderPolicy{}
	c := New(&broken)
	_, err := c.Candidates("1", 1)
	if !errors.Is(err, semiotic.ErrMalformedOutput) {
		t.Errorf("err = %v, want ErrMalformedOutput for unregistered class", err)
	}
}
