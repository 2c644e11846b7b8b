package scrape_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfeuerstein/watch-monitor/internal/scrape"
	domain "github.com/sfeuerstein/watch-monitor/pkg/types"
)

func TestGrimmeissen_Scrape(t *testing.T) {
	t.Parallel()

	srv := fixtureServer(t, map[string]string{
		"/de/uhren": "grimmeissen_index.html",
		"/de/uhren/patek-philippe-nautilus-5711": "grimmeissen_detail.html",
	})

	s := scrape.NewGrimmeissen(testFetcher(t), srv.URL)
	assert.Equal(t, "grimmeissen", s.Source().Key)

	listings, err := s.Scrape(context.Background())
	require.NoError(t, err)
	require.Len(t, listings, 2)

	assert.Equal(t, domain.RawListing{
		SourceKey:     "grimmeissen",
		Brand:         "Patek Philippe",
		Model:         "Nautilus",
		Reference:     "5711/1A-010",
		PriceText:     "98.000 €",
		Currency:      domain.CurrencyEUR,
		YearText:      "2015",
		ConditionText: "Neuwertig",
		DetailText:    "Box und Papiere",
		ImageURL:      srv.URL + "/img/uhren/nautilus-5711.jpg",
		DetailURL:     srv.URL + "/de/uhren/patek-philippe-nautilus-5711",
	}, listings[0])

	// Price-on-request listing without a detail page behind it.
	assert.Equal(t, domain.RawListing{
		SourceKey: "grimmeissen",
		Brand:     "IWC",
		Model:     "Ingenieur",
		PriceText: "Preis auf Anfrage",
		Currency:  domain.CurrencyEUR,
		ImageURL:  srv.URL + "/img/uhren/ingenieur-666.jpg",
		DetailURL: srv.URL + "/de/uhren/iwc-ingenieur-666",
	}, listings[1])
}
