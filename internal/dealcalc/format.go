package dealcalc

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var usd = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency renders v as whole US dollars, e.g. "$59,000" or
// "-$1,250". Halves round away from zero and negative values that round to
// zero keep their sign ("-$0"). Non-finite values render as "$NaN", "$∞" or
// "-$∞".
func FormatCurrency(v float64) string {
	switch {
	case math.IsNaN(v):
		return "$NaN"
	case math.IsInf(v, 1):
		return "$∞"
	case math.IsInf(v, -1):
		return "-$∞"
	}
	rounded := math.Round(v)
	if math.Signbit(rounded) {
		return usd.Sprintf("-$%.0f", -rounded)
	}
	return usd.Sprintf("$%.0f", rounded)
}
