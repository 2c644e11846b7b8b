package scrape

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sfeuerstein/watch-monitor/pkg/normalize"
	domain "github.com/sfeuerstein/watch-monitor/pkg/types"
)

var srcGrimmeissen = domain.Source{
	Key:         "grimmeissen",
	Name:        "Grimmeissen",
	Currency:    domain.CurrencyEUR,
	AccentColor: 0xDAA520,
}

const grimmeissenBase = "https://www.grimmeissen.de"

// Grimmeissen scrapes the Grimmeissen Uhren inventory. Index cards mark
// the brand with a nested link inside the title; the detail page has an
// attribute table plus a separate details section whose table carries the
// scope of delivery.
type Grimmeissen struct {
	fetch *Fetcher
	base  string
}

// NewGrimmeissen creates the adapter. An empty baseURL selects the live
// site.
func NewGrimmeissen(f *Fetcher, baseURL string) *Grimmeissen {
	if baseURL == "" {
		baseURL = grimmeissenBase
	}
	return &Grimmeissen{fetch: f, base: strings.TrimSuffix(baseURL, "/")}
}

// Source implements Scraper.
func (g *Grimmeissen) Source() domain.Source { return srcGrimmeissen }

// Scrape implements Scraper.
func (g *Grimmeissen) Scrape(ctx context.Context) ([]domain.RawListing, error) {
	doc, err := g.fetch.Page(ctx, srcGrimmeissen.Key, g.base+"/de/uhren")
	if err != nil {
		return nil, err
	}

	cards := doc.Find("article.watch")
	if cards.Length() == 0 {
		return nil, fmt.Errorf("grimmeissen: no watch articles: %w", ErrShapeChanged)
	}

	listings := make([]domain.RawListing, 0, cards.Length())
	cards.Each(func(_ int, card *goquery.Selection) {
		raw := g.card(card)
		if raw.DetailURL == "" {
			return
		}
		listings = append(listings, raw)
	})

	for i := range listings {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		g.enrich(ctx, &listings[i])
	}
	return listings, nil
}

func (g *Grimmeissen) card(card *goquery.Selection) domain.RawListing {
	raw := domain.RawListing{
		SourceKey: srcGrimmeissen.Key,
		Currency:  domain.CurrencyEUR,
		DetailURL: absURL(g.base, firstAttr(card, "figure a", "href")),
		ImageURL:  absURL(g.base, firstAttr(card, "figure a img", "data-src", "src")),
		PriceText: findText(card, "section.fh p"),
	}

	// The h1 reads "<brand> <model>" with the brand inside a nested link.
	title := findText(card, "section.fh h1")
	raw.Brand = findText(card, "section.fh h1 span a")
	if raw.Brand != "" {
		raw.Model = normalize.CleanText(strings.Replace(title, raw.Brand, "", 1))
	} else {
		raw.Model = title
	}
	return raw
}

func (g *Grimmeissen) enrich(ctx context.Context, raw *domain.RawListing) {
	doc, err := g.fetch.Page(ctx, srcGrimmeissen.Key, raw.DetailURL)
	if err != nil {
		g.fetch.log.Warn("detail fetch failed",
			"source", srcGrimmeissen.Key, "url", raw.DetailURL, "error", err)
		return
	}

	main := doc.Find("div.c-7.do-lefty")
	fields := tableFields(main.Find("table").First(), "tr", "th", "td")
	raw.Reference = fieldOf(fields, "referenz", "reference")
	raw.YearText = fieldOf(fields, "jahr", "year")
	raw.ConditionText = fieldOf(fields, "zustand", "condition")

	// The scope of delivery lives in a second table following the
	// "Details" heading.
	main.Find("h3").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(textOf(h)), "details") {
			return true
		}
		details := tableFields(h.NextFiltered("table"), "tr", "th", "td")
		raw.DetailText = fieldOf(details, "lieferumfang", "scope of delivery")
		return false
	})
}
