package scrape_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfeuerstein/watch-monitor/internal/scrape"
	domain "github.com/sfeuerstein/watch-monitor/pkg/types"
)

func TestWatchOut_Scrape(t *testing.T) {
	t.Parallel()

	srv := fixtureServer(t, map[string]string{
		"/collections/gebrauchte-uhren": "watch_out_index.html",
		"/products/tudor-black-bay-58":  "watch_out_detail.html",
	})

	s := scrape.NewWatchOut(testFetcher(t), srv.URL)
	assert.Equal(t, "watch_out", s.Source().Key)

	listings, err := s.Scrape(context.Background())
	require.NoError(t, err)

	// The sold-out card is skipped.
	require.Len(t, listings, 2)

	desc := "Tudor Black Bay 58 Ref. M79030N aus dem Jahr 2021. " +
		"Komplettset mit Box und Papieren."

	// Badge reference beats the analytics SKU, the analytics price in
	// cents replaces the card price text, and the pure number in the
	// title is not part of the model.
	assert.Equal(t, domain.RawListing{
		SourceKey:     "watch_out",
		Brand:         "Tudor",
		Model:         "Black Bay",
		Reference:     "M79030N",
		PriceText:     "3150,00 €",
		Currency:      domain.CurrencyEUR,
		YearText:      desc,
		ConditionText: "Gebraucht",
		DetailText:    desc + " Lieferumfang: Box und Papiere, Baujahr 2021.",
		ImageURL:      srv.URL + "/cdn/shop/files/bb58.jpg",
		DetailURL:     srv.URL + "/products/tudor-black-bay-58",
	}, listings[0])

	// Card with an empty title and no brand link: the analytics meta
	// fills vendor and untranslated title. No detail page behind it.
	assert.Equal(t, domain.RawListing{
		SourceKey: "watch_out",
		Brand:     "Omega",
		Model:     "Constellation Quartz",
		PriceText: "890,00 €",
		Currency:  domain.CurrencyEUR,
		ImageURL:  srv.URL + "/cdn/shop/files/constellation.jpg",
		DetailURL: srv.URL + "/products/omega-constellation-quartz",
	}, listings[1])
}
