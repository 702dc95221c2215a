package grammar

import (
	"strings"
	"unicode/utf8"

	"github.com/sicoreai/NeMo-text-processing/pkg/fst"
)

// baseAlphabet is interned into every fresh kit before any builder runs:
// the printable ASCII range plus the currency signs the reference grammars
// use. Pre-interning keeps [Kit.Sigma] and [Kit.Except] coverage
// independent of class build order. Sources whose data reaches beyond this
// set intern the rest up front with [Kit.Intern].
const baseAlphabet = " !\"#$%&'()*+,-./0123456789:;<=>?@ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^_`abcdefghijklmnopqrstuvwxyz{|}~€£¥"

// Kit is the toolbox handed to class builders: a shared symbol table plus
// the constructors grammar authors compose their class machines from. All
// transducers built through one kit share one table and can therefore be
// freely combined.
type Kit struct {
	syms *fst.SymbolTable
}

// NewKit returns a kit with a fresh symbol table covering [baseAlphabet].
func NewKit() *Kit {
	k := &Kit{syms: fst.NewSymbolTable()}
	k.syms.Runes(baseAlphabet)
	return k
}

// Symbols returns the kit's shared symbol table.
func (k *Kit) Symbols() *fst.SymbolTable { return k.syms }

// Intern adds every rune of the given strings to the symbol table. Sources
// with non-ASCII data call it once before building classes so that
// [Kit.Sigma] and [Kit.Except] cover their full alphabet.
func (k *Kit) Intern(texts ...string) {
	for _, t := range texts {
		k.syms.Runes(t)
	}
}

// Accep returns an acceptor for exactly s.
func (k *Kit) Accep(s string) *fst.Fst { return fst.Accep(k.syms, s) }

// Cross returns a transducer mapping exactly in to out.
func (k *Kit) Cross(in, out string) *fst.Fst { return fst.Cross(k.syms, in, out) }

// Insert returns a transducer emitting s while consuming nothing.
func (k *Kit) Insert(s string) *fst.Fst { return fst.Insert(k.syms, s) }

// Delete returns a transducer consuming s while emitting nothing.
func (k *Kit) Delete(s string) *fst.Fst { return fst.Delete(k.syms, s) }

// Map returns the union of crosses for an ordered pair list.
func (k *Kit) Map(pairs [][2]string) *fst.Fst { return fst.StringMap(k.syms, pairs) }

// InvertedMap returns the union of crosses with every pair flipped, which
// is how the spoken-to-text direction reuses the written-to-spoken data.
func (k *Kit) InvertedMap(pairs [][2]string) *fst.Fst {
	flipped := make([][2]string, len(pairs))
	for i, p := range pairs {
		flipped[i] = [2]string{p[1], p[0]}
	}
	return fst.StringMap(k.syms, flipped)
}

// Sigma returns a single-symbol identity acceptor over every interned
// symbol.
func (k *Kit) Sigma() *fst.Fst { return fst.SigmaOn(k.syms) }

// SigmaStar returns the identity acceptor over any string of interned
// symbols, including the empty one.
func (k *Kit) SigmaStar() *fst.Fst { return fst.Closure(k.Sigma(), fst.ClosureStar) }

// AnyOf returns a single-symbol identity acceptor over the runes of set,
// interning them as needed.
func (k *Kit) AnyOf(set string) *fst.Fst {
	f := fst.New(k.syms)
	s0 := f.AddState()
	s1 := f.AddState()
	f.SetStart(s0)
	f.SetFinal(s1, 0)
	for _, l := range k.syms.Runes(set) {
		f.AddArc(s0, fst.Arc{In: l, Out: l, Next: s1})
	}
	return f
}

// Except returns a single-symbol identity acceptor over every interned
// single-rune symbol not present in set. Multi-character symbols are not
// included; character-level grammars are the only users.
func (k *Kit) Except(set string) *fst.Fst {
	f := fst.New(k.syms)
	s0 := f.AddState()
	s1 := f.AddState()
	f.SetStart(s0)
	f.SetFinal(s1, 0)
	for l := fst.Label(1); int(l) < k.syms.Len(); l++ {
		name := k.syms.Name(l)
		r, size := utf8.DecodeRuneInString(name)
		if size != len(name) || strings.ContainsRune(set, r) {
			continue
		}
		f.AddArc(s0, fst.Arc{In: l, Out: l, Next: s1})
	}
	return f
}

// Digit returns a single-symbol acceptor for the ASCII digits.
func (k *Kit) Digit() *fst.Fst { return k.AnyOf("0123456789") }

// NotQuote returns a single-symbol acceptor for anything but the double
// quote, the character class of unescaped field values.
func (k *Kit) NotQuote() *fst.Fst { return k.Except(`"`) }

// InsertSpace emits a single space, the separator between fields and
// between serialized tokens.
func (k *Kit) InsertSpace() *fst.Fst { return k.Insert(" ") }

// DeleteSpace consumes a single space.
func (k *Kit) DeleteSpace() *fst.Fst { return k.Delete(" ") }

// Escape returns a single-character transducer from raw input to quoted
// field value form: identity on everything except the double quote and
// backslash, which come out escaped. Runes in except are left out of the
// identity set entirely; passing " " keeps a span tagger from swallowing
// the token separator.
func (k *Kit) Escape(except string) *fst.Fst {
	return fst.Union(
		k.Except(`"\`+except),
		k.Cross(`"`, `\"`),
		k.Cross(`\`, `\\`),
	)
}

// Unescape returns the inverse of [Kit.Escape]: quoted field value form
// back to raw text.
func (k *Kit) Unescape(except string) *fst.Fst {
	return fst.Invert(k.Escape(except))
}

// EmitField wraps a value transducer in the tagged field syntax on the
// output side: value becomes `name: "value"`.
func (k *Kit) EmitField(name string, value *fst.Fst) *fst.Fst {
	return fst.Concat(k.Insert(name+`: "`), value, k.Insert(`"`))
}

// ReadField strips the tagged field syntax on the input side, leaving the
// value transducer to consume the quoted content.
func (k *Kit) ReadField(name string, value *fst.Fst) *fst.Fst {
	return fst.Concat(k.Delete(name+`: "`), value, k.Delete(`"`))
}

// EmitClass wraps a field body in the class block syntax on the output
// side: body becomes `name { body }`.
func (k *Kit) EmitClass(name string, body *fst.Fst) *fst.Fst {
	return fst.Concat(k.Insert(name+" { "), body, k.Insert(" }"))
}

// ReadClass strips the class block syntax on the input side.
func (k *Kit) ReadClass(name string, body *fst.Fst) *fst.Fst {
	return fst.Concat(k.Delete(name+" { "), body, k.Delete(" }"))
}
