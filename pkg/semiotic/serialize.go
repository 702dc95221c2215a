package semiotic

import (
	"sort"
	"strings"
)

// Serialize renders a sequence in the canonical text form: one
// "tokens { ... }" segment per token, separated by single spaces. The
// output round-trips exactly through [Parse].
func Serialize(seq Sequence) string {
	var b strings.Builder
	for i, tok := range seq {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(SerializeToken(tok))
	}
	return b.String()
}

// SerializeToken renders a single token as a "tokens { ... }" segment.
func SerializeToken(tok Token) string {
	var b strings.Builder
	b.WriteString("tokens { ")
	writeTokenBody(&b, tok)
	b.WriteString(" }")
	return b.String()
}

// String returns the token's segment form.
func (t Token) String() string { return SerializeToken(t) }

// String returns the sequence's canonical form.
func (s Sequence) String() string { return Serialize(s) }

func writeTokenBody(b *strings.Builder, tok Token) {
	if tok.Class != "" {
		b.WriteString(tok.Class)
		b.WriteString(" { ")
		writeFields(b, tok.Fields)
		b.WriteString(" }")
		return
	}
	writeFields(b, tok.Fields)
}

func writeFields(b *strings.Builder, fields []Field) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(' ')
		}
		if f.Sub != nil {
			b.WriteString(f.Name)
			b.WriteString(" { ")
			writeFields(b, f.Sub.Fields)
			b.WriteString(" }")
			continue
		}
		b.WriteString(f.Name)
		b.WriteString(": \"")
		b.WriteString(escapeValue(f.Value))
		b.WriteString("\"")
	}
}

func escapeValue(v string) string {
	if !strings.ContainsAny(v, "\"\\") {
		return v
	}
	var b strings.Builder
	for _, r := range v {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Key returns a permutation-insensitive identity for a sequence: fields of
// permute-policy tokens are sorted by name, fixed-policy and literal tokens
// keep their emitted order. Two taggings that differ only in the attribute
// order of a permutable token share one key, which is how the classify
// stage collapses them into a single candidate.
func Key(seq Sequence, policies map[string]OrderPolicy) string {
	var b strings.Builder
	for i, tok := range seq {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(SerializeToken(canonicalize(tok, policies)))
	}
	return b.String()
}

func canonicalize(tok Token, policies map[string]OrderPolicy) Token {
	if tok.Class == "" || policies[tok.Class] == OrderFixed {
		return tok
	}
	fields := make([]Field, len(tok.Fields))
	copy(fields, tok.Fields)
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })
	for i, f := range fields {
		if f.Sub != nil {
			sub := canonicalize(*f.Sub, policies)
			fields[i].Sub = &sub
		}
	}
	return Token{Class: tok.Class, Fields: fields}
}
