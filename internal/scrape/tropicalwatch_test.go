package scrape_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfeuerstein/watch-monitor/internal/scrape"
	domain "github.com/sfeuerstein/watch-monitor/pkg/types"
)

func TestTropicalWatch_Scrape(t *testing.T) {
	t.Parallel()

	srv := fixtureServer(t, map[string]string{
		"/{$}": "tropicalwatch_index.html",
		"/watches/rolex-gmt-master-1675-gilt": "tropicalwatch_detail.html",
	})

	s := scrape.NewTropicalWatch(testFetcher(t), srv.URL)
	assert.Equal(t, "tropicalwatch", s.Source().Key)
	assert.Equal(t, domain.CurrencyUSD, s.Source().Currency)

	listings, err := s.Scrape(context.Background())
	require.NoError(t, err)
	require.Len(t, listings, 2)

	// Detail table supplies brand, model, reference and year.
	assert.Equal(t, domain.RawListing{
		SourceKey: "tropicalwatch",
		Brand:     "Rolex",
		Model:     "GMT-Master",
		Reference: "1675",
		PriceText: "$24,800",
		Currency:  domain.CurrencyUSD,
		YearText:  "1966",
		ImageURL:  srv.URL + "/photos/gmt-1675-gilt.jpg",
		DetailURL: srv.URL + "/watches/rolex-gmt-master-1675-gilt",
	}, listings[0])

	// Without a detail page the index title is dissected instead: known
	// brand, then reference, then the remaining words as the model.
	assert.Equal(t, domain.RawListing{
		SourceKey: "tropicalwatch",
		Brand:     "Heuer",
		Model:     "Autavia Jochen Rindt",
		Reference: "2446",
		PriceText: "$18,500",
		Currency:  domain.CurrencyUSD,
		ImageURL:  srv.URL + "/photos/autavia-2446.jpg",
		DetailURL: srv.URL + "/watches/heuer-autavia-2446-rindt",
	}, listings[1])
}
