package en

import (
	"github.com/sicoreai/NeMo-text-processing/pkg/fst"
	"github.com/sicoreai/NeMo-text-processing/pkg/grammar"
)

// The numeric word graphs below are rebuilt per class builder invocation.
// They share the kit's symbol table, so the copies compose freely; keeping
// them as plain functions keeps every builder deterministic against kit
// state, which assembly requires.

// tensWords covers 10-99: teens, exact tens, and tens with a unit digit.
func tensWords(k *grammar.Kit) *fst.Fst {
	return fst.Union(
		k.Map(teenPairs),
		fst.Concat(k.Map(tensPairs), k.Delete("0")),
		fst.Concat(k.Map(tensPairs), k.InsertSpace(), k.Map(digitPairs)),
	)
}

// upToTwoWords covers 1-99 without leading zeros.
func upToTwoWords(k *grammar.Kit) *fst.Fst {
	return fst.Union(k.Map(digitPairs), tensWords(k))
}

// hundredsWords covers 100-999.
func hundredsWords(k *grammar.Kit) *fst.Fst {
	hundred := fst.Concat(k.Map(digitPairs), k.Insert(" hundred"))
	return fst.Union(
		fst.Concat(hundred, k.Delete("00")),
		fst.Concat(hundred, k.InsertSpace(), k.Delete("0"), k.Map(digitPairs)),
		fst.Concat(hundred, k.InsertSpace(), tensWords(k)),
	)
}

// upToThreeWords covers 1-999 without leading zeros.
func upToThreeWords(k *grammar.Kit) *fst.Fst {
	return fst.Union(upToTwoWords(k), hundredsWords(k))
}

// group3 consumes exactly three digits and speaks 001-999; it never
// accepts 000, which the callers delete instead.
func group3(k *grammar.Kit) *fst.Fst {
	return fst.Union(
		fst.Concat(k.Delete("00"), k.Map(digitPairs)),
		fst.Concat(k.Delete("0"), tensWords(k)),
		hundredsWords(k),
	)
}

// cardinalWords speaks 0 through 999,999,999. Every input has exactly one
// spoken form: the fixed-width tail groups make the head/tail split
// unambiguous, so the inverted graph is equally functional.
func cardinalWords(k *grammar.Kit) *fst.Fst {
	head := upToThreeWords(k)
	rest3 := fst.Union(
		k.Delete("000"),
		fst.Concat(k.InsertSpace(), group3(k)),
	)
	thousandSeg := fst.Union(
		k.Delete("000"),
		fst.Concat(k.InsertSpace(), group3(k), k.Insert(" thousand")),
	)
	return fst.Union(
		k.Map(zeroPair),
		head,
		fst.Concat(head, k.Insert(" thousand"), rest3),
		fst.Concat(head, k.Insert(" million"), thousandSeg, rest3),
	)
}

// spokenDigits speaks a digit string one digit at a time ("14" becomes
// "one four"), the reading used for decimal fractions and phone numbers.
func spokenDigits(k *grammar.Kit) *fst.Fst {
	d := fst.Union(k.Map(zeroPair), k.Map(digitPairs))
	return fst.Concat(d, fst.Closure(fst.Concat(k.InsertSpace(), d), fst.ClosureStar))
}

// digitGroup speaks exactly n digits one at a time.
func digitGroup(k *grammar.Kit, n int) *fst.Fst {
	d := fst.Union(k.Map(zeroPair), k.Map(digitPairs))
	parts := make([]*fst.Fst, 0, 2*n-1)
	for i := 0; i < n; i++ {
		if i > 0 {
			parts = append(parts, k.InsertSpace())
		}
		parts = append(parts, d)
	}
	return fst.Concat(parts...)
}

// ordinalWords speaks 1-99 from bare digits ("12" becomes "twelfth"),
// the form dates use for days.
func ordinalWords(k *grammar.Kit) *fst.Fst {
	return fst.Union(
		k.Map(ordinalDigitPairs),
		fst.Concat(k.Delete("0"), k.Map(ordinalDigitPairs)),
		k.Map(ordinalTeenPairs),
		k.Map(ordinalTensPairs),
		fst.Concat(k.Map(tensPairs), k.InsertSpace(), k.Map(ordinalDigitPairs)),
	)
}

// ordinalSuffix returns the abbreviation suffix written after a number's
// digits: 1st, 2nd, 3rd, 4th, with the teens always taking th.
func ordinalSuffix(digits string) string {
	if len(digits) >= 2 && digits[len(digits)-2] == '1' {
		return "th"
	}
	switch digits[len(digits)-1] {
	case '1':
		return "st"
	case '2':
		return "nd"
	case '3':
		return "rd"
	}
	return "th"
}

// suffixedOrdinalWords maps written ordinals with their suffix to spoken
// words ("21st" becomes "twenty first"), covering 1st through 99th.
func suffixedOrdinalWords(k *grammar.Kit) *fst.Fst {
	branches := make([]*fst.Fst, 0, len(ordinalDigitPairs)+len(ordinalTeenPairs)+len(ordinalTensPairs)+1)
	for _, p := range ordinalDigitPairs {
		branches = append(branches, k.Cross(p[0]+ordinalSuffix(p[0]), p[1]))
	}
	for _, p := range ordinalTeenPairs {
		branches = append(branches, k.Cross(p[0]+ordinalSuffix(p[0]), p[1]))
	}
	for _, p := range ordinalTensPairs {
		branches = append(branches, k.Cross(p[0]+ordinalSuffix(p[0]), p[1]))
	}
	// 21st-99th except exact tens: tens digit, then a suffixed unit.
	var units [][2]string
	for _, p := range ordinalDigitPairs {
		units = append(units, [2]string{p[0] + ordinalSuffix(p[0]), p[1]})
	}
	branches = append(branches,
		fst.Concat(k.Map(tensPairs), k.InsertSpace(), k.Map(units)))
	return fst.Union(branches...)
}

// yearWords speaks four-digit years in pairs: "2020" becomes "twenty
// twenty", "1900" becomes "nineteen hundred". Years whose second pair is
// 01-09 are left to the cardinal class.
func yearWords(k *grammar.Kit) *fst.Fst {
	return fst.Concat(tensWords(k), fst.Union(
		fst.Concat(k.InsertSpace(), tensWords(k)),
		k.Cross("00", " hundred"),
	))
}

// monthNames accepts any spoken month name as identity.
func monthNames(k *grammar.Kit) *fst.Fst {
	names := make([]*fst.Fst, len(monthPairs))
	for i, p := range monthPairs {
		names[i] = k.Accep(p[1])
	}
	return fst.Union(names...)
}

// notQuote accepts one or more of anything but a double quote, the value
// language of a tagged field.
func notQuote(k *grammar.Kit) *fst.Fst {
	return fst.Closure(k.NotQuote(), fst.ClosurePlus)
}

// minorUnitFor returns the minor currency unit for a symbol, or "".
func minorUnitFor(symbol string) string {
	for _, p := range currencyMinorPairs {
		if p[0] == symbol {
			return p[1]
		}
	}
	return ""
}
