// Package semiotic defines the tagged-token protocol spoken between
// taggers and verbalizers: the token model, the bracketed key/value text
// form ("tokens { cardinal { integer: \"one\" } }"), and field ordering
// policies.
//
// The textual convention is fixed by the dual-deployment contract: class
// and field names form an externally agreed vocabulary so that other
// runtimes consuming the same compiled grammars interpret tagged output
// identically. The engine never invents names at runtime; it only parses,
// reorders and re-serializes what grammars emit.
package semiotic

import (
	"errors"
	"fmt"
)

// ErrMalformedOutput reports tagged text that violates the structural
// protocol: unbalanced braces, unterminated quotes, missing separators or
// an unregistered vocabulary item. It always indicates a grammar bug, never
// a bad user input, and is therefore fatal for the code path that hit it.
// The distinct "no match" outcome is an empty candidate set, not an error.
var ErrMalformedOutput = errors.New("semiotic: malformed grammar output")

// LiteralField is the field name under which untouched input spans pass
// through ("tokens { name: \"hello\" }").
const LiteralField = "name"

// Token is one tagged span: a semiotic class plus named fields. Class is
// empty for bare literal tokens, which carry their text in a single
// LiteralField entry.
type Token struct {
	Class  string
	Fields []Field
}

// Field is a named value inside a token. Exactly one of Value or Sub is
// set: plain fields hold a string, sub-structure fields nest another token
// ("measure { cardinal { integer: \"five\" } units: \"kilometers\" }").
type Field struct {
	Name  string
	Value string
	Sub   *Token
}

// Sequence is an ordered run of tokens covering one input left to right.
type Sequence []Token

// Literal returns the pass-through token for an untouched span.
func Literal(text string) Token {
	return Token{Fields: []Field{{Name: LiteralField, Value: text}}}
}

// IsLiteral reports whether t is a bare pass-through token.
func (t Token) IsLiteral() bool {
	return t.Class == "" && len(t.Fields) == 1 &&
		t.Fields[0].Name == LiteralField && t.Fields[0].Sub == nil
}

// LiteralText returns the pass-through text of a literal token, or "".
func (t Token) LiteralText() string {
	if !t.IsLiteral() {
		return ""
	}
	return t.Fields[0].Value
}

// OrderPolicy declares, per class and once at build time, whether the
// verbalizer may see a token's fields in any order or only in the emitted
// one. Fixed order skips permutation entirely, which is strictly cheaper
// and must be chosen whenever the grammar author knows the order is always
// right; a class never mixes both.
type OrderPolicy int

const (
	// OrderPermute tries every field ordering and lets composition weight
	// pick the best. This is the default.
	OrderPermute OrderPolicy = iota
	// OrderFixed tries only the emitted field order.
	OrderFixed
)

// String returns the configuration-file spelling of the policy.
func (p OrderPolicy) String() string {
	if p == OrderFixed {
		return "fixed"
	}
	return "permute"
}

// MaxPermutedFields caps how many fields a permute-policy token may carry.
// Beyond it the factorial blowup (>720 orderings) is never what a grammar
// author intended, so the token is treated as a grammar contract violation
// rather than silently truncated.
const MaxPermutedFields = 6

// Permutations returns tok rewritten with every ordering of its top-level
// fields, starting with the emitted order. Sub-structures travel as units.
// Tokens with more than MaxPermutedFields fields fail with
// [ErrMalformedOutput].
func Permutations(tok Token) ([]Token, error) {
	n := len(tok.Fields)
	if n > MaxPermutedFields {
		return nil, fmt.Errorf("%w: token %q has %d fields, permutation cap is %d",
			ErrMalformedOutput, tok.Class, n, MaxPermutedFields)
	}
	if n <= 1 {
		return []Token{tok}, nil
	}

	var out []Token
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	var permute func(k int)
	permute = func(k int) {
		if k == n {
			fields := make([]Field, n)
			for i, j := range idx {
				fields[i] = tok.Fields[j]
			}
			out = append(out, Token{Class: tok.Class, Fields: fields})
			return
		}
		permute(k + 1)
		for i := k + 1; i < n; i++ {
			idx[k], idx[i] = idx[i], idx[k]
			permute(k + 1)
			idx[k], idx[i] = idx[i], idx[k]
		}
	}
	permute(0)
	return out, nil
}
