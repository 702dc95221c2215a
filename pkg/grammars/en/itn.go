package en

import (
	"github.com/sicoreai/NeMo-text-processing/pkg/fst"
	"github.com/sicoreai/NeMo-text-processing/pkg/grammar"
	"github.com/sicoreai/NeMo-text-processing/pkg/semiotic"
)

// The spoken-to-text classes invert the word graphs the written-to-spoken
// classes are built from, so both directions share one set of data tables.
// Only graphs that stay functional after inversion are inverted: branches
// that exist to absorb written variance (zero padding, separator choices,
// alternate spellings) would turn one spoken form into several written
// ones, so those classes pin a single canonical written output instead.

// itnCardinalClass writes spoken integers back as digits:
// "minus twenty three" tags as cardinal { negative: "true" integer: "23" }.
func itnCardinalClass() grammar.Class {
	return grammar.Class{
		Name:   "cardinal",
		Weight: weightCardinal,
		Tagger: func(k *grammar.Kit) (*fst.Fst, error) {
			negative := fst.Closure(
				fst.Concat(k.EmitField("negative", k.Cross("minus", "true")), k.Accep(" ")),
				fst.ClosureOpt)
			body := fst.Concat(negative, k.EmitField("integer", fst.Invert(cardinalWords(k))))
			return k.EmitClass("cardinal", body), nil
		},
		Verbalizer: func(k *grammar.Kit) (*fst.Fst, error) {
			negative := fst.Closure(
				fst.Concat(k.ReadField("negative", k.Cross("true", "-")), k.Delete(" ")),
				fst.ClosureOpt)
			body := fst.Concat(negative, k.ReadField("integer", notQuote(k)))
			return k.ReadClass("cardinal", body), nil
		},
	}
}

// itnDecimalClass writes spoken decimal fractions back as digits:
// "three point one four" tags as
// decimal { integer_part: "3" fractional_part: "14" }.
func itnDecimalClass() grammar.Class {
	return grammar.Class{
		Name:   "decimal",
		Weight: weightDecimal,
		Tagger: func(k *grammar.Kit) (*fst.Fst, error) {
			body := fst.Concat(
				k.EmitField("integer_part", fst.Invert(cardinalWords(k))),
				k.Delete(" point"),
				k.Accep(" "),
				k.EmitField("fractional_part", fst.Invert(spokenDigits(k))),
			)
			return k.EmitClass("decimal", body), nil
		},
		Verbalizer: func(k *grammar.Kit) (*fst.Fst, error) {
			body := fst.Concat(
				k.ReadField("integer_part", notQuote(k)),
				k.Cross(" ", "."),
				k.ReadField("fractional_part", notQuote(k)),
			)
			return k.ReadClass("decimal", body), nil
		},
	}
}

// itnOrdinalClass writes spoken ordinals back with their digit suffix:
// "twenty first" tags as ordinal { integer: "21st" }.
func itnOrdinalClass() grammar.Class {
	return grammar.Class{
		Name:   "ordinal",
		Weight: weightOrdinal,
		Tagger: func(k *grammar.Kit) (*fst.Fst, error) {
			return k.EmitClass("ordinal",
				k.EmitField("integer", fst.Invert(suffixedOrdinalWords(k)))), nil
		},
		Verbalizer: func(k *grammar.Kit) (*fst.Fst, error) {
			return k.ReadClass("ordinal", k.ReadField("integer", notQuote(k))), nil
		},
	}
}

// itnMoneyClass writes spoken amounts back in symbol-first form:
// "ten euros" tags as money { integer_part: "10" currency: "€" } and the
// verbalizer reads the currency first, so realization crosses field
// orders in this direction too. Minor units are out of scope here: spoken
// cent phrasings vary too much to pin one written form.
func itnMoneyClass() grammar.Class {
	return grammar.Class{
		Name:   "money",
		Weight: weightMoney,
		Tagger: func(k *grammar.Kit) (*fst.Fst, error) {
			body := fst.Concat(
				k.EmitField("integer_part", fst.Invert(cardinalWords(k))),
				k.Accep(" "),
				k.EmitField("currency", k.InvertedMap(currencyMajorPairs)),
			)
			return k.EmitClass("money", body), nil
		},
		Verbalizer: func(k *grammar.Kit) (*fst.Fst, error) {
			body := fst.Concat(
				k.ReadField("currency", notQuote(k)),
				k.Delete(" "),
				k.ReadField("integer_part", notQuote(k)),
			)
			return k.ReadClass("money", body), nil
		},
	}
}

// itnTimeClass writes spoken clock times back as hh:mm:
// "five thirty p m" tags as
// time { hours: "5" minutes: "30" suffix: "pm" }. Hours invert only the
// unpadded reading, so "five" comes back as "5", never "05".
func itnTimeClass() grammar.Class {
	return grammar.Class{
		Name:   "time",
		Weight: weightTime,
		Tagger: func(k *grammar.Kit) (*fst.Fst, error) {
			minutes := fst.Union(
				k.Cross("00", "o'clock"),
				fst.Concat(k.Cross("0", "oh "), k.Map(digitPairs)),
				tensWords(k),
			)
			suffix := fst.Union(k.Cross("a m", "am"), k.Cross("p m", "pm"))
			body := fst.Concat(
				k.EmitField("hours", fst.Invert(upToTwoWords(k))),
				k.Accep(" "),
				k.EmitField("minutes", fst.Invert(minutes)),
				fst.Closure(
					fst.Concat(k.Accep(" "), k.EmitField("suffix", suffix)),
					fst.ClosureOpt),
			)
			return k.EmitClass("time", body), nil
		},
		Verbalizer: func(k *grammar.Kit) (*fst.Fst, error) {
			body := fst.Concat(
				k.ReadField("hours", notQuote(k)),
				k.Cross(" ", ":"),
				k.ReadField("minutes", notQuote(k)),
				fst.Closure(
					fst.Concat(k.Accep(" "), k.ReadField("suffix", notQuote(k))),
					fst.ClosureOpt),
			)
			return k.ReadClass("time", body), nil
		},
	}
}

// itnWhitelistClass maps spoken forms back to their fixed abbreviations,
// tagged as bare literals: "mister" becomes name: "Mr.".
func itnWhitelistClass() grammar.Class {
	return grammar.Class{
		Name:   "whitelist",
		Weight: weightWhitelist,
		Order:  semiotic.OrderFixed,
		Tagger: func(k *grammar.Kit) (*fst.Fst, error) {
			return k.EmitField("name", k.InvertedMap(whitelistPairs)), nil
		},
		Verbalizer: func(k *grammar.Kit) (*fst.Fst, error) {
			return k.ReadField("name", notQuote(k)), nil
		},
	}
}
