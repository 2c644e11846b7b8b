// Package normalize converts raw scraped listing fields into their
// canonical form: parsed prices in minor EUR units, ordinal conditions,
// tri-state box/papers flags, and cleaned text.
package normalize

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	domain "github.com/sfeuerstein/watch-monitor/pkg/types"
)

// ErrConversion marks a failed exchange-rate lookup. The listing it
// degraded is still usable; only its hash price is absent.
var ErrConversion = errors.New("exchange rate unavailable")

// RateFunc returns the multiplier converting one unit of from into EUR.
type RateFunc func(ctx context.Context, from domain.Currency) (float64, error)

// Normalizer turns RawListings into canonical Listings. The zero value
// works for EUR-only sources; non-EUR sources need a rate function.
type Normalizer struct {
	rate RateFunc
}

// New creates a Normalizer using rate for currency conversion.
func New(rate RateFunc) *Normalizer {
	return &Normalizer{rate: rate}
}

// Canonical converts a raw listing. The returned listing is always valid;
// a non-nil error reports degradation (currently only ErrConversion) that
// the caller may want to log and count.
func (n *Normalizer) Canonical(ctx context.Context, raw domain.RawListing) (domain.Listing, error) {
	l := domain.Listing{
		SourceKey: raw.SourceKey,
		Brand:     CleanText(raw.Brand),
		Model:     CleanText(raw.Model),
		Reference: Reference(raw.Reference),
		Year:      Year(raw.YearText, raw.Model),
		Condition: Condition(raw.ConditionText),
		ImageURL:  strings.TrimSpace(raw.ImageURL),
		DetailURL: strings.TrimSpace(raw.DetailURL),
	}
	l.Box, l.Papers = BoxPapers(raw.DetailText)

	var convErr error
	l.HashPrice, l.DisplayPrice, convErr = n.price(ctx, raw)
	return l, convErr
}

// price resolves the two price representations. Identity gets minor EUR
// units, display keeps the source currency.
func (n *Normalizer) price(ctx context.Context, raw domain.RawListing) (*int64, string, error) {
	amount, ok := Amount(raw.PriceText, raw.Currency)
	if !ok {
		return nil, PriceOnRequest, nil
	}

	if raw.Currency == "" || raw.Currency == domain.CurrencyEUR {
		minor := MinorUnits(amount)
		return &minor, DisplayEUR(amount), nil
	}

	if n.rate == nil {
		return nil, DisplayForeign(amount, raw.Currency), fmt.Errorf("%s: %w", raw.Currency, ErrConversion)
	}
	rate, err := n.rate(ctx, raw.Currency)
	if err != nil {
		return nil, DisplayForeign(amount, raw.Currency), fmt.Errorf("%s: %w: %s", raw.Currency, ErrConversion, err)
	}

	converted := amount * rate
	minor := MinorUnits(converted)
	return &minor, DisplayConverted(amount, raw.Currency, converted), nil
}

// CleanText decodes HTML entities and collapses all runs of whitespace
// into single spaces.
func CleanText(s string) string {
	return strings.Join(strings.Fields(html.UnescapeString(s)), " ")
}
