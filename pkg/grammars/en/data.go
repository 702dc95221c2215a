package en

// The archive fingerprint does not see these tables; any edit here must
// be paired with a Version bump in en.go or stale archives keep serving
// the old readings.

var zeroPair = [][2]string{{"0", "zero"}}

var digitPairs = [][2]string{
	{"1", "one"}, {"2", "two"}, {"3", "three"}, {"4", "four"}, {"5", "five"},
	{"6", "six"}, {"7", "seven"}, {"8", "eight"}, {"9", "nine"},
}

var teenPairs = [][2]string{
	{"10", "ten"}, {"11", "eleven"}, {"12", "twelve"}, {"13", "thirteen"},
	{"14", "fourteen"}, {"15", "fifteen"}, {"16", "sixteen"},
	{"17", "seventeen"}, {"18", "eighteen"}, {"19", "nineteen"},
}

// tensPairs is keyed on the leading digit of 20-99.
var tensPairs = [][2]string{
	{"2", "twenty"}, {"3", "thirty"}, {"4", "forty"}, {"5", "fifty"},
	{"6", "sixty"}, {"7", "seventy"}, {"8", "eighty"}, {"9", "ninety"},
}

var ordinalDigitPairs = [][2]string{
	{"1", "first"}, {"2", "second"}, {"3", "third"}, {"4", "fourth"},
	{"5", "fifth"}, {"6", "sixth"}, {"7", "seventh"}, {"8", "eighth"},
	{"9", "ninth"},
}

var ordinalTeenPairs = [][2]string{
	{"10", "tenth"}, {"11", "eleventh"}, {"12", "twelfth"},
	{"13", "thirteenth"}, {"14", "fourteenth"}, {"15", "fifteenth"},
	{"16", "sixteenth"}, {"17", "seventeenth"}, {"18", "eighteenth"},
	{"19", "nineteenth"},
}

var ordinalTensPairs = [][2]string{
	{"20", "twentieth"}, {"30", "thirtieth"}, {"40", "fortieth"},
	{"50", "fiftieth"}, {"60", "sixtieth"}, {"70", "seventieth"},
	{"80", "eightieth"}, {"90", "ninetieth"},
}

// monthPairs maps month numbers without leading zero; monthPairs[:9]
// covers the single-digit months a zero-padded form reduces to.
var monthPairs = [][2]string{
	{"1", "january"}, {"2", "february"}, {"3", "march"}, {"4", "april"},
	{"5", "may"}, {"6", "june"}, {"7", "july"}, {"8", "august"},
	{"9", "september"}, {"10", "october"}, {"11", "november"},
	{"12", "december"},
}

var currencyMajorPairs = [][2]string{
	{"$", "dollars"}, {"€", "euros"}, {"£", "pounds"}, {"¥", "yen"},
}

// currencyMinorPairs parallels currencyMajorPairs; symbols without a
// minor unit (yen) are absent and get no cents pattern.
var currencyMinorPairs = [][2]string{
	{"$", "cents"}, {"€", "cents"}, {"£", "pence"},
}

var unitPairs = [][2]string{
	{"km", "kilometers"}, {"cm", "centimeters"}, {"mm", "millimeters"},
	{"m", "meters"}, {"mi", "miles"}, {"ft", "feet"}, {"in", "inches"},
	{"kg", "kilograms"}, {"mg", "milligrams"}, {"g", "grams"},
	{"lb", "pounds"}, {"oz", "ounces"}, {"mph", "miles per hour"},
	{"GB", "gigabytes"}, {"MB", "megabytes"}, {"KB", "kilobytes"},
	{"ms", "milliseconds"}, {"s", "seconds"}, {"min", "minutes"},
	{"h", "hours"}, {"%", "percent"},
}

var timeSuffixPairs = [][2]string{
	{"am", "a m"}, {"pm", "p m"}, {"a.m.", "a m"}, {"p.m.", "p m"},
	{"AM", "a m"}, {"PM", "p m"},
}

var whitelistPairs = [][2]string{
	{"Mr.", "mister"}, {"Mrs.", "misses"}, {"Dr.", "doctor"},
	{"St.", "saint"}, {"Jr.", "junior"}, {"Sr.", "senior"},
	{"vs.", "versus"}, {"etc.", "et cetera"}, {"No.", "number"},
	{"approx.", "approximately"},
}
