package en

import (
	"github.com/sicoreai/NeMo-text-processing/pkg/fst"
	"github.com/sicoreai/NeMo-text-processing/pkg/grammar"
	"github.com/sicoreai/NeMo-text-processing/pkg/semiotic"
)

// cardinalClass speaks integers, optionally signed:
// "-23" tags as cardinal { negative: "true" integer: "twenty three" }.
func cardinalClass() grammar.Class {
	return grammar.Class{
		Name:   "cardinal",
		Weight: weightCardinal,
		Tagger: func(k *grammar.Kit) (*fst.Fst, error) {
			negative := fst.Closure(
				fst.Concat(k.EmitField("negative", k.Cross("-", "true")), k.InsertSpace()),
				fst.ClosureOpt)
			body := fst.Concat(negative, k.EmitField("integer", cardinalWords(k)))
			return k.EmitClass("cardinal", body), nil
		},
		Verbalizer: func(k *grammar.Kit) (*fst.Fst, error) {
			negative := fst.Closure(
				fst.Concat(k.ReadField("negative", k.Cross("true", "minus")), k.Accep(" ")),
				fst.ClosureOpt)
			body := fst.Concat(negative, k.ReadField("integer", notQuote(k)))
			return k.ReadClass("cardinal", body), nil
		},
	}
}

// decimalClass speaks decimal fractions digit by digit:
// "3.14" tags as decimal { integer_part: "three" fractional_part: "one four" }.
func decimalClass() grammar.Class {
	return grammar.Class{
		Name:   "decimal",
		Weight: weightDecimal,
		Tagger: func(k *grammar.Kit) (*fst.Fst, error) {
			body := fst.Concat(
				k.EmitField("integer_part", cardinalWords(k)),
				k.Delete("."),
				k.InsertSpace(),
				k.EmitField("fractional_part", spokenDigits(k)),
			)
			return k.EmitClass("decimal", body), nil
		},
		Verbalizer: func(k *grammar.Kit) (*fst.Fst, error) {
			body := fst.Concat(
				k.ReadField("integer_part", notQuote(k)),
				k.Accep(" "),
				k.Insert("point "),
				k.ReadField("fractional_part", notQuote(k)),
			)
			return k.ReadClass("decimal", body), nil
		},
	}
}

// ordinalClass speaks suffixed ordinals up to 99th:
// "21st" tags as ordinal { integer: "twenty first" }.
func ordinalClass() grammar.Class {
	return grammar.Class{
		Name:   "ordinal",
		Weight: weightOrdinal,
		Tagger: func(k *grammar.Kit) (*fst.Fst, error) {
			return k.EmitClass("ordinal", k.EmitField("integer", suffixedOrdinalWords(k))), nil
		},
		Verbalizer: func(k *grammar.Kit) (*fst.Fst, error) {
			return k.ReadClass("ordinal", k.ReadField("integer", notQuote(k))), nil
		},
	}
}

// whitelistClass maps fixed abbreviations straight to their spoken form,
// tagged as bare literals: "Dr." becomes name: "doctor".
func whitelistClass() grammar.Class {
	return grammar.Class{
		Name:   "whitelist",
		Weight: weightWhitelist,
		Order:  semiotic.OrderFixed,
		Tagger: func(k *grammar.Kit) (*fst.Fst, error) {
			return k.EmitField("name", k.Map(whitelistPairs)), nil
		},
		Verbalizer: func(k *grammar.Kit) (*fst.Fst, error) {
			return k.ReadField("name", notQuote(k)), nil
		},
	}
}

// wordClass is the literal fallback: any space-free span passes through
// with quote and backslash escaped into the field value.
func wordClass() grammar.Class {
	return grammar.Class{
		Name:   "word",
		Weight: weightWord,
		Order:  semiotic.OrderFixed,
		Tagger: func(k *grammar.Kit) (*fst.Fst, error) {
			return k.EmitField("name", fst.Closure(k.Escape(" "), fst.ClosurePlus)), nil
		},
		Verbalizer: func(k *grammar.Kit) (*fst.Fst, error) {
			return k.ReadField("name", fst.Closure(k.Unescape(" "), fst.ClosurePlus)), nil
		},
	}
}

// punctChars are the characters the punct class accepts literally; quote
// and backslash ride through the escape crosses instead.
const punctChars = ".,!?;:'()[]{}<>-_/&@#%*+=~|"

// punctClass passes punctuation runs through unchanged, so "..." stays a
// tagged token rather than forcing the whole-input fallback.
func punctClass() grammar.Class {
	return grammar.Class{
		Name:   "punct",
		Weight: weightPunct,
		Order:  semiotic.OrderFixed,
		Tagger: func(k *grammar.Kit) (*fst.Fst, error) {
			value := fst.Closure(fst.Union(
				k.AnyOf(punctChars),
				k.Cross(`"`, `\"`),
				k.Cross(`\`, `\\`),
			), fst.ClosurePlus)
			return k.EmitField("name", value), nil
		},
		Verbalizer: func(k *grammar.Kit) (*fst.Fst, error) {
			return k.ReadField("name", fst.Closure(k.Unescape(" "), fst.ClosurePlus)), nil
		},
	}
}
