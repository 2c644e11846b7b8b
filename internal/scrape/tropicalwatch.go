package scrape

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	domain "github.com/sfeuerstein/watch-monitor/pkg/types"
)

var srcTropicalWatch = domain.Source{
	Key:         "tropicalwatch",
	Name:        "Tropical Watch",
	Currency:    domain.CurrencyUSD,
	AccentColor: 0x008080,
}

const tropicalWatchBase = "https://tropicalwatch.com"

// knownBrands splits "Rolex Submariner 5513 1968" style titles when the
// detail table omits the brand. Longest names first so "Patek Philippe"
// wins before any shorter match is tried.
var knownBrands = []string{
	"A. Lange & Söhne",
	"Jaeger-LeCoultre",
	"Universal Geneve",
	"Audemars Piguet",
	"Studio Underd0g",
	"Patek Philippe",
	"Breitling",
	"Longines",
	"Cartier",
	"Panerai",
	"Zenith",
	"Rolex",
	"Omega",
	"Heuer",
	"Tudor",
	"IWC",
}

// TropicalWatch scrapes the Tropical Watch vintage inventory, the only
// USD source. Detail pages carry a full English attribute table; titles
// cover the gaps when the table is incomplete.
type TropicalWatch struct {
	fetch *Fetcher
	base  string
}

// NewTropicalWatch creates the adapter. An empty baseURL selects the live
// site.
func NewTropicalWatch(f *Fetcher, baseURL string) *TropicalWatch {
	if baseURL == "" {
		baseURL = tropicalWatchBase
	}
	return &TropicalWatch{fetch: f, base: strings.TrimSuffix(baseURL, "/")}
}

// Source implements Scraper.
func (t *TropicalWatch) Source() domain.Source { return srcTropicalWatch }

// Scrape implements Scraper.
func (t *TropicalWatch) Scrape(ctx context.Context) ([]domain.RawListing, error) {
	doc, err := t.fetch.Page(ctx, srcTropicalWatch.Key, t.base+"/?sort=recent")
	if err != nil {
		return nil, err
	}

	cards := doc.Find("li.watch")
	if cards.Length() == 0 {
		return nil, fmt.Errorf("tropicalwatch: no watch items: %w", ErrShapeChanged)
	}

	type indexItem struct {
		raw   domain.RawListing
		title string
	}
	items := make([]indexItem, 0, cards.Length())
	cards.Each(func(_ int, card *goquery.Selection) {
		item := indexItem{
			raw: domain.RawListing{
				SourceKey: srcTropicalWatch.Key,
				Currency:  domain.CurrencyUSD,
				DetailURL: absURL(t.base, firstAttr(card, "div.photo-wrapper a", "href")),
				ImageURL:  absURL(t.base, firstAttr(card, "div.photo-wrapper a img", "src", "data-src")),
				PriceText: findText(card, "div.content a h3"),
			},
			title: findText(card, "div.content a h2"),
		}
		if item.raw.DetailURL == "" {
			return
		}
		items = append(items, item)
	})

	listings := make([]domain.RawListing, 0, len(items))
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t.enrich(ctx, &item.raw, item.title)
		listings = append(listings, item.raw)
	}
	return listings, nil
}

// enrich fills the listing from the detail table, then falls back to
// dissecting the index title for anything the table left blank.
func (t *TropicalWatch) enrich(ctx context.Context, raw *domain.RawListing, title string) {
	doc, err := t.fetch.Page(ctx, srcTropicalWatch.Key, raw.DetailURL)
	if err != nil {
		t.fetch.log.Warn("detail fetch failed",
			"source", srcTropicalWatch.Key, "url", raw.DetailURL, "error", err)
	} else {
		if dt := findText(doc.Selection, "h1.watch-main-title"); dt != "" {
			title = dt
		}
		fields := tableFields(
			doc.Find("div.watch-main-details-content table.watch-main-details-table").First(),
			"tr", "th", "td",
		)
		raw.Brand = fieldOf(fields, "brand")
		raw.Model = fieldOf(fields, "model")
		raw.Reference = fieldOf(fields, "reference")
		raw.YearText = fieldOf(fields, "year")
	}

	if raw.Brand == "" {
		raw.Brand = knownBrand(title)
	}
	if raw.Reference == "" {
		raw.Reference = referenceRe.FindString(strings.ReplaceAll(title, raw.Brand, ""))
	}
	if raw.Model == "" {
		rest := strings.ReplaceAll(title, raw.Reference, "")
		raw.Model = modelFromTitle(rest, raw.Brand)
	}
}

// knownBrand matches a title against the brand list, prefix matches
// before substring matches.
func knownBrand(title string) string {
	t := strings.ToLower(title)
	for _, b := range knownBrands {
		if strings.HasPrefix(t, strings.ToLower(b)) {
			return b
		}
	}
	for _, b := range knownBrands {
		if strings.Contains(t, strings.ToLower(b)) {
			return b
		}
	}
	return ""
}
