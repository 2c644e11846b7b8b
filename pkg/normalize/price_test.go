package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfeuerstein/watch-monitor/pkg/normalize"
	domain "github.com/sfeuerstein/watch-monitor/pkg/types"
)

func TestAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		cur  domain.Currency
		want float64
		ok   bool
	}{
		{name: "german grouped with cents", text: "12.345,00 €", cur: domain.CurrencyEUR, want: 12345.00, ok: true},
		{name: "german grouped no cents", text: "5.000 €", cur: domain.CurrencyEUR, want: 5000, ok: true},
		{name: "german plain", text: "950 EUR", cur: domain.CurrencyEUR, want: 950, ok: true},
		{name: "german cents only", text: "1.234,56", cur: domain.CurrencyEUR, want: 1234.56, ok: true},
		{name: "symbol before amount", text: "€ 18.900", cur: domain.CurrencyEUR, want: 18900, ok: true},
		{name: "us grouped", text: "$5,000", cur: domain.CurrencyUSD, want: 5000, ok: true},
		{name: "us decimal", text: "$1,234.56", cur: domain.CurrencyUSD, want: 1234.56, ok: true},
		{name: "us plain", text: "4800 USD", cur: domain.CurrencyUSD, want: 4800, ok: true},
		{name: "no digits", text: "Preis auf Anfrage", cur: domain.CurrencyEUR, ok: false},
		{name: "empty", text: "", cur: domain.CurrencyEUR, ok: false},
		{name: "trailing separator trimmed", text: "7.500,- €", cur: domain.CurrencyEUR, want: 7500, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := normalize.Amount(tt.text, tt.cur)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 0.001)
			}
		})
	}
}

func TestMinorUnits(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(1234500), normalize.MinorUnits(12345.00))
	assert.Equal(t, int64(460000), normalize.MinorUnits(4600.00))
	assert.Equal(t, int64(100), normalize.MinorUnits(0.995))
}

func TestDisplayFormats(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "€12,345", normalize.DisplayEUR(12345.00))
	assert.Equal(t, "€950", normalize.DisplayEUR(950))
	assert.Equal(t, "$5,000", normalize.DisplayForeign(5000, domain.CurrencyUSD))
	assert.Equal(t, "$5,000 (≈ €4,600)", normalize.DisplayConverted(5000, domain.CurrencyUSD, 4600))
}
