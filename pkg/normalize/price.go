package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	domain "github.com/sfeuerstein/watch-monitor/pkg/types"
)

// PriceOnRequest is the display price for listings whose price text could
// not be parsed. Such listings still flow through; only their hash price
// is absent.
const PriceOnRequest = "price on request"

// amountRe grabs the first digit run including grouping and decimal
// separators. Interpretation of the separators happens afterwards, by
// source convention.
var amountRe = regexp.MustCompile(`\d[\d.,]*`)

// grouped formats integers with comma thousands separators.
var grouped = message.NewPrinter(language.English)

// Amount parses the first monetary amount in text. The currency selects
// the separator convention: EUR sources write German style (dot groups,
// comma decimals), everything else US style (comma groups, dot decimals).
func Amount(text string, cur domain.Currency) (float64, bool) {
	m := amountRe.FindString(text)
	if m == "" {
		return 0, false
	}
	m = strings.Trim(m, ".,")

	if cur == "" || cur == domain.CurrencyEUR {
		m = strings.ReplaceAll(m, ".", "")
		m = strings.ReplaceAll(m, ",", ".")
	} else {
		m = strings.ReplaceAll(m, ",", "")
	}

	v, err := strconv.ParseFloat(m, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// MinorUnits converts a EUR amount into integer cents, rounding halves up.
func MinorUnits(eur float64) int64 {
	return int64(math.Round(eur * 100))
}

// DisplayEUR renders a EUR amount as whole euros with thousands grouping,
// e.g. "€12,345".
func DisplayEUR(eur float64) string {
	return grouped.Sprintf("€%d", int64(math.Round(eur)))
}

// DisplayForeign renders an unconverted foreign amount in its own
// currency, e.g. "$5,000".
func DisplayForeign(amount float64, cur domain.Currency) string {
	return grouped.Sprintf("%s%d", symbol(cur), int64(math.Round(amount)))
}

// DisplayConverted renders a foreign amount together with its EUR
// equivalent, e.g. "$5,000 (≈ €4,600)".
func DisplayConverted(amount float64, cur domain.Currency, eur float64) string {
	return grouped.Sprintf("%s%d (≈ €%d)",
		symbol(cur), int64(math.Round(amount)), int64(math.Round(eur)))
}

func symbol(cur domain.Currency) string {
	switch cur {
	case domain.CurrencyUSD:
		return "$"
	case domain.CurrencyEUR:
		return "€"
	default:
		return string(cur) + " "
	}
}
