package en_test

import (
	"context"
	"sync"
	"testing"

	"github.com/sicoreai/NeMo-text-processing/pkg/grammar"
	"github.com/sicoreai/NeMo-text-processing/pkg/grammars/en"
	"github.com/sicoreai/NeMo-text-processing/pkg/normalize"
)

// The full English registry is expensive to assemble, so every test in
// the package shares one build.
var (
	buildOnce sync.Once
	built     *normalize.Registry
	buildErr  error
)

func normalizer(t *testing.T) *normalize.Normalizer {
	t.Helper()
	buildOnce.Do(func() {
		built, buildErr = normalize.BuildRegistry(context.Background(), normalize.RegistryConfig{}, en.New())
	})
	if buildErr != nil {
		t.Fatalf("BuildRegistry: %v", buildErr)
	}
	return normalize.New(built)
}

func convert(t *testing.T, n *normalize.Normalizer, text string, dir normalize.Direction) string {
	t.Helper()
	res, err := n.Normalize(context.Background(), text, dir)
	if err != nil {
		t.Fatalf("Normalize(%q, %s): %v", text, string(dir), err)
	}
	return res.Output
}

func TestTextToSpoken_Conversions(t *testing.T) {
	t.Parallel()
	n := normalizer(t)

	cases := []struct{ in, want string }{
		{"123", "one hundred twenty three"},
		{"-23", "minus twenty three"},
		{"3.14", "three point one four"},
		{"21st", "twenty first"},
		{"€10", "ten euros"},
		{"€10.50", "ten euros and fifty cents"},
		{"$402", "four hundred two dollars"},
		{"5 km", "five kilometers"},
		{"3.5 m", "three point five meters"},
		{"5:30 pm", "five thirty p m"},
		{"14:00", "fourteen o'clock"},
		{"10/12/2020", "october twelfth twenty twenty"},
		{"january 5", "january fifth"},
		{"555-123-4567", "five five five one two three four five six seven"},
		{"user@mail.com", "user at mail dot com"},
		{"Dr. Smith", "doctor Smith"},
		{`say "hi"`, `say "hi"`},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			if got := convert(t, n, tc.in, normalize.TextToSpoken); got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestSpokenToText_Conversions(t *testing.T) {
	t.Parallel()
	n := normalizer(t)

	cases := []struct{ in, want string }{
		{"one hundred twenty three", "123"},
		{"minus five", "-5"},
		{"three point one four", "3.14"},
		{"twenty first", "21st"},
		{"ten euros", "€10"},
		{"five thirty", "5:30"},
		{"five thirty p m", "5:30 pm"},
		{"fourteen o'clock", "14:00"},
		{"mister", "Mr."},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			if got := convert(t, n, tc.in, normalize.SpokenToText); got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

// A written form converted to spoken form and back must land on the
// original text for inputs whose written form is canonical.
func TestRoundTrip(t *testing.T) {
	t.Parallel()
	n := normalizer(t)

	for _, text := range []string{"123", "-23", "3.14", "21st", "€10", "5:30", "Mr."} {
		t.Run(text, func(t *testing.T) {
			spoken := convert(t, n, text, normalize.TextToSpoken)
			back := convert(t, n, spoken, normalize.SpokenToText)
			if back != text {
				t.Errorf("round trip %q -> %q -> %q", text, spoken, back)
			}
		})
	}
}

// "10 12 2020" reads as one date or as three cardinals; the date is the
// more specific parse and must win, with the cardinal reading surviving
// as the runner-up under top-k.
func TestTextToSpoken_DateBeatsCardinals(t *testing.T) {
	t.Parallel()
	n := normalizer(t)

	res, err := n.Normalize(context.Background(), "10 12 2020", normalize.TextToSpoken, normalize.WithTopK(2))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	want := []string{
		"october twelfth twenty twenty",
		"ten twelve two thousand twenty",
	}
	if len(res.Candidates) != len(want) {
		t.Fatalf("got %d candidates %+v, want %d", len(res.Candidates), res.Candidates, len(want))
	}
	for i, c := range res.Candidates {
		if c.Output != want[i] {
			t.Errorf("Candidates[%d].Output = %q, want %q", i, c.Output, want[i])
		}
	}
	if res.Candidates[0].Weight >= res.Candidates[1].Weight {
		t.Errorf("date weight %v not below cardinal weight %v",
			res.Candidates[0].Weight, res.Candidates[1].Weight)
	}
}

// cardinalOnly strips the source down to its cardinal class, leaving
// punctuation with no reading at all.
type cardinalOnly struct{ grammar.Source }

func (s cardinalOnly) Classes(dir grammar.Direction) []grammar.Class {
	var out []grammar.Class
	for _, c := range s.Source.Classes(dir) {
		if c.Name == "cardinal" {
			out = append(out, c)
		}
	}
	return out
}

func TestTextToSpoken_NoReadingPassesThrough(t *testing.T) {
	t.Parallel()
	reg, err := normalize.BuildRegistry(context.Background(), normalize.RegistryConfig{
		Directions: []normalize.Direction{normalize.TextToSpoken},
	}, cardinalOnly{en.New()})
	if err != nil {
		t.Fatalf("BuildRegistry: %v", err)
	}
	n := normalize.New(reg)

	res, err := n.Normalize(context.Background(), "...", normalize.TextToSpoken)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if res.Output != "..." {
		t.Errorf("Output = %q, want input back", res.Output)
	}
	if res.Weight != 0 {
		t.Errorf("Weight = %v, want 0 for a pass-through", res.Weight)
	}
	if len(res.Candidates) != 1 || res.Candidates[0].Tagged != "" {
		t.Errorf("Candidates = %+v, want a single untagged pass-through", res.Candidates)
	}
}

func TestSource_Declarations(t *testing.T) {
	t.Parallel()
	src := en.New()

	if src.Language() != "en" {
		t.Errorf("Language() = %q, want %q", src.Language(), "en")
	}
	for _, dir := range grammar.Directions() {
		classes := src.Classes(dir)
		if len(classes) == 0 {
			t.Fatalf("Classes(%s) is empty", string(dir))
		}
		seen := make(map[string]bool, len(classes))
		for _, c := range classes {
			if seen[c.Name] {
				t.Errorf("Classes(%s): duplicate class %q", string(dir), c.Name)
			}
			seen[c.Name] = true
			if c.Weight < 0 {
				t.Errorf("Classes(%s): class %q has negative weight", string(dir), c.Name)
			}
		}
		for _, name := range []string{"whitelist", "money", "time", "cardinal", "word", "punct"} {
			if !seen[name] {
				t.Errorf("Classes(%s): class %q missing", string(dir), name)
			}
		}
	}
}
