// Package grammartest provides a miniature compiled grammar for engine
// tests: a digit class, a two-field span class whose verbalizer reads its
// fields in the reverse of the emitted order (exercising permutation), and
// an escaped word fallback. The spoken-to-text direction inverts the digit
// data.
package grammartest

import (
	"context"
	"testing"

	"github.com/sicoreai/NeMo-text-processing/pkg/fst"
	"github.com/sicoreai/NeMo-text-processing/pkg/grammar"
)

var digitPairs = [][2]string{{"1", "one"}, {"2", "two"}, {"3", "three"}}

type source struct{}

func (source) Language() string { return "zz" }
func (source) Version() string  { return "grammartest-1" }

func (source) Classes(dir grammar.Direction) []grammar.Class {
	value := func(k *grammar.Kit) *fst.Fst {
		return fst.Closure(k.NotQuote(), fst.ClosurePlus)
	}
	word := grammar.Class{
		Name:   "word",
		Weight: 10,
		Tagger: func(k *grammar.Kit) (*fst.Fst, error) {
			return k.EmitField("name", fst.Closure(k.Escape(" "), fst.ClosurePlus)), nil
		},
		Verbalizer: func(k *grammar.Kit) (*fst.Fst, error) {
			return k.ReadField("name", fst.Closure(k.Unescape(" "), fst.ClosurePlus)), nil
		},
	}

	if dir == grammar.SpokenToText {
		return []grammar.Class{
			{
				Name:   "number",
				Weight: 1,
				Tagger: func(k *grammar.Kit) (*fst.Fst, error) {
					return k.EmitClass("number", k.EmitField("integer", k.InvertedMap(digitPairs))), nil
				},
				Verbalizer: func(k *grammar.Kit) (*fst.Fst, error) {
					return k.ReadClass("number", k.ReadField("integer", value(k))), nil
				},
			},
			word,
		}
	}

	return []grammar.Class{
		{
			Name:   "number",
			Weight: 1,
			Tagger: func(k *grammar.Kit) (*fst.Fst, error) {
				return k.EmitClass("number", k.EmitField("integer", k.Map(digitPairs))), nil
			},
			Verbalizer: func(k *grammar.Kit) (*fst.Fst, error) {
				return k.ReadClass("number", k.ReadField("integer", value(k))), nil
			},
		},
		{
			// "1-2" tags as span { first: "one" second: "two" }; the
			// verbalizer only reads the reversed field order, so realizing
			// it depends on the permutation machinery.
			Name:   "span",
			Weight: 1,
			Tagger: func(k *grammar.Kit) (*fst.Fst, error) {
				body := fst.Concat(
					k.EmitField("first", k.Map(digitPairs)),
					k.Delete("-"),
					k.InsertSpace(),
					k.EmitField("second", k.Map(digitPairs)),
				)
				return k.EmitClass("span", body), nil
			},
			Verbalizer: func(k *grammar.Kit) (*fst.Fst, error) {
				body := fst.Concat(
					k.ReadField("second", value(k)),
					k.Accep(" "),
					k.ReadField("first", value(k)),
				)
				return k.ReadClass("span", body), nil
			},
		},
		word,
	}
}

// Source returns the fixture grammar source.
func Source() grammar.Source { return source{} }

// Compile assembles the fixture for one direction, failing the test on any
// build error.
func Compile(tb testing.TB, dir grammar.Direction) *grammar.Compiled {
	tb.Helper()
	c, err := grammar.Assemble(context.Background(), Source(), dir)
	if err != nil {
		tb.Fatalf("assemble fixture grammar (%s): %v", dir, err)
	}
	return c
}
