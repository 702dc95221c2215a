// Package grammar compiles grammar sources into immutable tagger and
// verbalizer transducer pairs.
//
// A grammar source declares, per direction, an ordered list of semiotic
// classes. Each class contributes two builders: a tagger mapping raw input
// spans to tagged token text, and a verbalizer mapping tagged token text to
// output spans. [Assemble] runs the builders against a shared build kit,
// applies per-class priority weights, wraps and chains the class machines
// into whole-utterance transducers, and optimizes every sub-grammar under a
// state and time budget. The product, a [Compiled], is immutable and safe
// for unlocked concurrent use.
//
// Build failures are loud and attributable: every error names the class
// and step that produced it, and the sentinel taxonomy ([ErrTooLarge],
// [ErrBuildTimeout], [ErrEmptyClass], semiotic.ErrMalformedOutput)
// distinguishes budget exhaustion from grammar bugs. A grammar that fails
// to assemble is never served.
package grammar

import (
	"errors"

	"github.com/sicoreai/NeMo-text-processing/pkg/fst"
	"github.com/sicoreai/NeMo-text-processing/pkg/semiotic"
)

// Direction selects which way a grammar transduces.
type Direction string

const (
	// TextToSpoken converts written form to spoken form ("123" to "one
	// hundred twenty three").
	TextToSpoken Direction = "text_to_spoken"
	// SpokenToText converts spoken form back to written form.
	SpokenToText Direction = "spoken_to_text"
)

// IsValid reports whether the direction is one of the known values.
func (d Direction) IsValid() bool {
	return d == TextToSpoken || d == SpokenToText
}

// Directions lists the valid directions in a fixed order.
func Directions() []Direction {
	return []Direction{TextToSpoken, SpokenToText}
}

var (
	// ErrTooLarge is returned when an optimized sub-grammar exceeds the
	// configured state budget. It wraps fst.ErrStateLimit.
	ErrTooLarge = errors.New("grammar: state budget exceeded")

	// ErrBuildTimeout is returned when assembly outlives its time budget.
	ErrBuildTimeout = errors.New("grammar: build timed out")

	// ErrEmptyClass is returned when a class tagger accepts no input at
	// all; such a class can never fire and always indicates a broken
	// builder rather than a narrow grammar.
	ErrEmptyClass = errors.New("grammar: class accepts no input")
)

// Builder constructs one side of a class grammar against the shared build
// kit. Builders run once per assembly and must be deterministic: the same
// kit state must always yield the same transducer.
type Builder func(k *Kit) (*fst.Fst, error)

// Class declares one semiotic class of a grammar source.
type Class struct {
	// Name is the class identifier used in tagged text, error messages
	// and the order-policy table. Unique within a source and direction.
	Name string

	// Weight is the priority bias added to every tagging this class
	// produces. Lower wins: specific classes (date, money) carry smaller
	// weights than generic fallbacks (word). Must be non-negative.
	Weight float64

	// Order is the field-order policy the verbalization stage applies to
	// tokens of this class.
	Order semiotic.OrderPolicy

	// Tagger builds the classifier side: raw span in, tagged token body
	// out, e.g. "123" to `cardinal { integer: "one hundred twenty three" }`.
	Tagger Builder

	// Verbalizer builds the realization side: tagged token body in,
	// output span out.
	Verbalizer Builder
}

// Source is the surface grammar authors implement. Sources are consulted
// at build time only; the engine never calls back into one while serving.
type Source interface {
	// Language returns the BCP 47 tag of the language this source covers.
	Language() string

	// Version identifies the grammar logic revision. Archive caching keys
	// on it, so authors must bump it whenever builder behavior changes.
	Version() string

	// Classes returns the class declarations for one direction, in
	// priority-relevant order. An empty slice means the direction is not
	// supported. Must return equal declarations on every call.
	Classes(dir Direction) []Class
}
