package en

import (
	"github.com/sicoreai/NeMo-text-processing/pkg/fst"
	"github.com/sicoreai/NeMo-text-processing/pkg/grammar"
)

// dateClass covers numeric month/day/year dates and written month names:
// "10/12/2020" tags as date { month: "october" day: "twelfth" year: "twenty twenty" },
// "january 5" as date { month: "january" day: "fifth" }.
//
// Numeric dates require all three components; two numbers with a
// separator stay cardinals or a decimal rather than guessing a date.
func dateClass() grammar.Class {
	return grammar.Class{
		Name:   "date",
		Weight: weightDate,
		Tagger: func(k *grammar.Kit) (*fst.Fst, error) {
			sep := fst.Union(k.Delete("/"), k.Delete("-"), k.Delete("."), k.Delete(" "))
			monthNum := fst.Union(
				k.Map(monthPairs),
				fst.Concat(k.Delete("0"), k.Map(monthPairs[:9])),
			)
			day := k.EmitField("day", ordinalWords(k))
			year := k.EmitField("year", yearWords(k))

			numeric := fst.Concat(
				k.EmitField("month", monthNum),
				sep, k.InsertSpace(), day,
				sep, k.InsertSpace(), year,
			)
			written := fst.Concat(
				k.EmitField("month", monthNames(k)),
				k.Delete(" "), k.InsertSpace(), day,
				fst.Closure(fst.Concat(k.Delete(" "), k.InsertSpace(), year), fst.ClosureOpt),
			)
			return k.EmitClass("date", fst.Union(numeric, written)), nil
		},
		Verbalizer: func(k *grammar.Kit) (*fst.Fst, error) {
			body := fst.Concat(
				k.ReadField("month", notQuote(k)),
				k.Accep(" "),
				k.ReadField("day", notQuote(k)),
				fst.Closure(fst.Concat(k.Accep(" "), k.ReadField("year", notQuote(k))), fst.ClosureOpt),
			)
			return k.ReadClass("date", body), nil
		},
	}
}

// timeClass covers clock times with an optional am/pm suffix:
// "5:30 pm" tags as time { hours: "five" minutes: "thirty" suffix: "p m" },
// "14:00" as time { hours: "fourteen" minutes: "o'clock" }.
func timeClass() grammar.Class {
	return grammar.Class{
		Name:   "time",
		Weight: weightTime,
		Tagger: func(k *grammar.Kit) (*fst.Fst, error) {
			hours := fst.Union(
				upToTwoWords(k),
				fst.Concat(k.Delete("0"), k.Map(digitPairs)),
			)
			minutes := fst.Union(
				k.Cross("00", "o'clock"),
				fst.Concat(k.Cross("0", "oh "), k.Map(digitPairs)),
				tensWords(k),
			)
			suffix := fst.Closure(fst.Concat(
				fst.Closure(k.Delete(" "), fst.ClosureOpt),
				k.InsertSpace(),
				k.EmitField("suffix", k.Map(timeSuffixPairs)),
			), fst.ClosureOpt)
			body := fst.Concat(
				k.EmitField("hours", hours),
				k.Delete(":"),
				k.InsertSpace(),
				k.EmitField("minutes", minutes),
				suffix,
			)
			return k.EmitClass("time", body), nil
		},
		Verbalizer: func(k *grammar.Kit) (*fst.Fst, error) {
			body := fst.Concat(
				k.ReadField("hours", notQuote(k)),
				k.Accep(" "),
				k.ReadField("minutes", notQuote(k)),
				fst.Closure(fst.Concat(k.Accep(" "), k.ReadField("suffix", notQuote(k))), fst.ClosureOpt),
			)
			return k.ReadClass("time", body), nil
		},
	}
}
