// Package en is the English grammar source.
//
// It declares the semiotic classes for both conversion directions over one
// set of data tables: the written-to-spoken classes expand digits, amounts,
// dates, phone numbers and email addresses into words, and the
// spoken-to-text classes invert the same word graphs back onto canonical
// written forms. Class weights rank
// competing parses of a span, and the word and punct fallbacks keep every
// in-alphabet utterance coverable.
package en

import "github.com/sicoreai/NeMo-text-processing/pkg/grammar"

// Class weights, lower wins. Whitelist entries beat everything, the
// four span-shaped classes beat the plain number readings, and the
// literal fallbacks fire only when nothing else accepts a span.
const (
	weightWhitelist  = 1
	weightDate       = 2
	weightTime       = 2
	weightMoney      = 2
	weightMeasure    = 2
	weightDecimal    = 3
	weightOrdinal    = 3
	weightTelephone  = 3
	weightElectronic = 3
	weightCardinal   = 4
	weightWord       = 100
	weightPunct      = 100
)

type source struct{}

// New returns the English grammar source.
func New() grammar.Source { return source{} }

func (source) Language() string { return "en" }

// Version is part of the archive cache key; bump it whenever a class
// builder or data table changes behavior.
func (source) Version() string { return "v1" }

func (source) Classes(dir grammar.Direction) []grammar.Class {
	switch dir {
	case grammar.TextToSpoken:
		return []grammar.Class{
			whitelistClass(),
			moneyClass(),
			measureClass(),
			timeClass(),
			dateClass(),
			decimalClass(),
			ordinalClass(),
			telephoneClass(),
			electronicClass(),
			cardinalClass(),
			wordClass(),
			punctClass(),
		}
	case grammar.SpokenToText:
		return []grammar.Class{
			itnWhitelistClass(),
			itnMoneyClass(),
			itnTimeClass(),
			itnDecimalClass(),
			itnOrdinalClass(),
			itnCardinalClass(),
			wordClass(),
			punctClass(),
		}
	}
	return nil
}
