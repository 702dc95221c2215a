package en

import (
	"github.com/sicoreai/NeMo-text-processing/pkg/fst"
	"github.com/sicoreai/NeMo-text-processing/pkg/grammar"
	"github.com/sicoreai/NeMo-text-processing/pkg/semiotic"
)

// telephoneClass covers North American seven-plus-area-code numbers,
// spoken digit by digit:
// "555-123-4567" tags as telephone { number_part: "five five five one two three four five six seven" }.
// The single field is order-fixed, so realization skips permutation.
func telephoneClass() grammar.Class {
	return grammar.Class{
		Name:   "telephone",
		Weight: weightTelephone,
		Order:  semiotic.OrderFixed,
		Tagger: func(k *grammar.Kit) (*fst.Fst, error) {
			sep := fst.Union(k.Delete("-"), k.Delete("."), k.Delete(" "))
			plain := fst.Concat(
				digitGroup(k, 3), sep, k.InsertSpace(),
				digitGroup(k, 3), sep, k.InsertSpace(),
				digitGroup(k, 4),
			)
			parens := fst.Concat(
				k.Delete("("), digitGroup(k, 3), k.Delete(")"),
				fst.Closure(k.Delete(" "), fst.ClosureOpt), k.InsertSpace(),
				digitGroup(k, 3), sep, k.InsertSpace(),
				digitGroup(k, 4),
			)
			return k.EmitClass("telephone",
				k.EmitField("number_part", fst.Union(plain, parens))), nil
		},
		Verbalizer: func(k *grammar.Kit) (*fst.Fst, error) {
			return k.ReadClass("telephone", k.ReadField("number_part", notQuote(k))), nil
		},
	}
}

// emailChars are the characters accepted inside an address label; dots
// are handled separately so they can be spoken.
const emailChars = "abcdefghijklmnopqrstuvwxyz0123456789_-"

// electronicClass covers email addresses, speaking separators:
// "john.doe@mail.com" tags as
// electronic { username: "john dot doe" domain: "mail dot com" }.
func electronicClass() grammar.Class {
	return grammar.Class{
		Name:   "electronic",
		Weight: weightElectronic,
		Order:  semiotic.OrderFixed,
		Tagger: func(k *grammar.Kit) (*fst.Fst, error) {
			chunk := fst.Closure(k.AnyOf(emailChars), fst.ClosurePlus)
			dot := k.Cross(".", " dot ")
			username := fst.Concat(chunk, fst.Closure(fst.Concat(dot, chunk), fst.ClosureStar))
			domain := fst.Concat(chunk, fst.Closure(fst.Concat(dot, chunk), fst.ClosurePlus))
			body := fst.Concat(
				k.EmitField("username", username),
				k.Delete("@"),
				k.InsertSpace(),
				k.EmitField("domain", domain),
			)
			return k.EmitClass("electronic", body), nil
		},
		Verbalizer: func(k *grammar.Kit) (*fst.Fst, error) {
			body := fst.Concat(
				k.ReadField("username", notQuote(k)),
				k.Accep(" "),
				k.Insert("at "),
				k.ReadField("domain", notQuote(k)),
			)
			return k.ReadClass("electronic", body), nil
		},
	}
}
