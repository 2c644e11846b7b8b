package scrape

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	domain "github.com/sfeuerstein/watch-monitor/pkg/types"
)

var srcWorldOfTime = domain.Source{
	Key:         "worldoftime",
	Name:        "World of Time",
	Currency:    domain.CurrencyEUR,
	AccentColor: 0x2F4F4F,
}

const worldOfTimeBase = "https://www.worldoftime.de"

// WorldOfTime scrapes the World of Time new-arrivals page. The index
// carries title and price; reference, year, condition and the
// scope-of-delivery line sit in a German attribute table on the detail
// page.
type WorldOfTime struct {
	fetch *Fetcher
	base  string
}

// NewWorldOfTime creates the adapter. An empty baseURL selects the live
// site.
func NewWorldOfTime(f *Fetcher, baseURL string) *WorldOfTime {
	if baseURL == "" {
		baseURL = worldOfTimeBase
	}
	return &WorldOfTime{fetch: f, base: strings.TrimSuffix(baseURL, "/")}
}

// Source implements Scraper.
func (w *WorldOfTime) Source() domain.Source { return srcWorldOfTime }

// Scrape implements Scraper.
func (w *WorldOfTime) Scrape(ctx context.Context) ([]domain.RawListing, error) {
	doc, err := w.fetch.Page(ctx, srcWorldOfTime.Key, w.base+"/Watches/NewArrivals")
	if err != nil {
		return nil, err
	}

	cards := doc.Find("div.new-arrivals-watch, div.paged-clocks-container div.watch-link")
	if cards.Length() == 0 {
		return nil, fmt.Errorf("worldoftime: no watch cards: %w", ErrShapeChanged)
	}

	listings := make([]domain.RawListing, 0, cards.Length())
	cards.Each(func(_ int, card *goquery.Selection) {
		raw := w.card(card)
		if raw.DetailURL == "" {
			return
		}
		listings = append(listings, raw)
	})

	for i := range listings {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		w.enrich(ctx, &listings[i])
	}
	return listings, nil
}

func (w *WorldOfTime) card(card *goquery.Selection) domain.RawListing {
	raw := domain.RawListing{
		SourceKey: srcWorldOfTime.Key,
		Currency:  domain.CurrencyEUR,
		DetailURL: absURL(w.base, firstAttr(card, "a", "href")),
		ImageURL:  absURL(w.base, firstAttr(card, "img", "src", "data-src")),
		PriceText: findText(card, ".watch-price, .price"),
	}

	// Titles read "Rolex Submariner ...": first word is the brand.
	title := findText(card, "h2, .watch-title")
	if brand, model, ok := strings.Cut(title, " "); ok {
		raw.Brand, raw.Model = brand, model
	} else {
		raw.Brand = title
	}
	return raw
}

func (w *WorldOfTime) enrich(ctx context.Context, raw *domain.RawListing) {
	doc, err := w.fetch.Page(ctx, srcWorldOfTime.Key, raw.DetailURL)
	if err != nil {
		w.fetch.log.Warn("detail fetch failed",
			"source", srcWorldOfTime.Key, "url", raw.DetailURL, "error", err)
		return
	}

	fields := tableFields(
		doc.Find("table.details-table, table.product-details").First(),
		"tr", "th", "td",
	)
	raw.Reference = fieldOf(fields, "referenz", "reference")
	raw.YearText = fieldOf(fields, "jahr", "year")
	raw.ConditionText = fieldOf(fields, "zustand", "condition")
	raw.DetailText = fieldOf(fields, "lieferumfang", "scope of delivery")
}
