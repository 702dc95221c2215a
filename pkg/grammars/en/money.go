package en

import (
	"github.com/sicoreai/NeMo-text-processing/pkg/fst"
	"github.com/sicoreai/NeMo-text-processing/pkg/grammar"
)

// moneyClass covers symbol-prefixed amounts, with cents for currencies
// that have a minor unit:
// "€10" tags as money { currency: "euros" integer_part: "ten" },
// "€10.50" adds fractional_part: "fifty" currency_minor: "cents".
//
// The tagger emits the currency field first because the symbol comes
// first in writing; the verbalizer reads the amount first, so realizing a
// money token always goes through field reordering.
func moneyClass() grammar.Class {
	return grammar.Class{
		Name:   "money",
		Weight: weightMoney,
		Tagger: func(k *grammar.Kit) (*fst.Fst, error) {
			cents := fst.Union(
				fst.Concat(k.Delete("0"), k.Map(digitPairs)),
				tensWords(k),
			)
			branches := make([]*fst.Fst, 0, 2*len(currencyMajorPairs))
			for _, cur := range currencyMajorPairs {
				symbol, major := cur[0], cur[1]
				plain := fst.Concat(
					k.EmitField("currency", k.Cross(symbol, major)),
					k.InsertSpace(),
					k.EmitField("integer_part", cardinalWords(k)),
				)
				branches = append(branches, plain)

				minor := minorUnitFor(symbol)
				if minor == "" {
					continue
				}
				branches = append(branches, fst.Concat(
					plain,
					k.Delete("."),
					k.InsertSpace(),
					k.EmitField("fractional_part", cents),
					k.InsertSpace(),
					k.EmitField("currency_minor", k.Insert(minor)),
				))
			}
			return k.EmitClass("money", fst.Union(branches...)), nil
		},
		Verbalizer: func(k *grammar.Kit) (*fst.Fst, error) {
			body := fst.Concat(
				k.ReadField("integer_part", notQuote(k)),
				k.Accep(" "),
				k.ReadField("currency", notQuote(k)),
				fst.Closure(fst.Concat(
					k.Accep(" "),
					k.Insert("and "),
					k.ReadField("fractional_part", notQuote(k)),
					k.Accep(" "),
					k.ReadField("currency_minor", notQuote(k)),
				), fst.ClosureOpt),
			)
			return k.ReadClass("money", body), nil
		},
	}
}

// measureClass covers a number with a unit, nesting the number as a
// cardinal or decimal sub-token the way the tagged protocol renders
// compound structures:
// "5 km" tags as measure { cardinal { integer: "five" } units: "kilometers" }.
func measureClass() grammar.Class {
	return grammar.Class{
		Name:   "measure",
		Weight: weightMeasure,
		Tagger: func(k *grammar.Kit) (*fst.Fst, error) {
			number := fst.Union(
				k.EmitClass("cardinal", k.EmitField("integer", cardinalWords(k))),
				k.EmitClass("decimal", fst.Concat(
					k.EmitField("integer_part", cardinalWords(k)),
					k.Delete("."),
					k.InsertSpace(),
					k.EmitField("fractional_part", spokenDigits(k)),
				)),
			)
			body := fst.Concat(
				number,
				fst.Closure(k.Delete(" "), fst.ClosureOpt),
				k.InsertSpace(),
				k.EmitField("units", k.Map(unitPairs)),
			)
			return k.EmitClass("measure", body), nil
		},
		Verbalizer: func(k *grammar.Kit) (*fst.Fst, error) {
			number := fst.Union(
				k.ReadClass("cardinal", k.ReadField("integer", notQuote(k))),
				k.ReadClass("decimal", fst.Concat(
					k.ReadField("integer_part", notQuote(k)),
					k.Accep(" "),
					k.Insert("point "),
					k.ReadField("fractional_part", notQuote(k)),
				)),
			)
			body := fst.Concat(
				number,
				k.Accep(" "),
				k.ReadField("units", notQuote(k)),
			)
			return k.ReadClass("measure", body), nil
		},
	}
}
