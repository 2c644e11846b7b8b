package scrape

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	domain "github.com/sfeuerstein/watch-monitor/pkg/types"
)

var srcJuwelierExchange = domain.Source{
	Key:         "juwelier_exchange",
	Name:        "Juwelier Exchange",
	Currency:    domain.CurrencyEUR,
	AccentColor: 0xB08D57,
}

const juwelierExchangeBase = "https://www.juwelier-exchange.de"

// srcsetResolutions orders the image variants of the shop's srcset
// attribute, best first.
var srcsetResolutions = []string{
	"1920x1920.webp", "800x800.webp", "400x400.webp", ".webp",
}

// JuwelierExchange scrapes the Juwelier Exchange watch category, a
// Shopware storefront. Detail pages embed a schema.org Product node that
// carries most attributes; the visible properties table and description
// fill the gaps.
type JuwelierExchange struct {
	fetch *Fetcher
	base  string
}

// NewJuwelierExchange creates the adapter. An empty baseURL selects the
// live site.
func NewJuwelierExchange(f *Fetcher, baseURL string) *JuwelierExchange {
	if baseURL == "" {
		baseURL = juwelierExchangeBase
	}
	return &JuwelierExchange{fetch: f, base: strings.TrimSuffix(baseURL, "/")}
}

// Source implements Scraper.
func (j *JuwelierExchange) Source() domain.Source { return srcJuwelierExchange }

// Scrape implements Scraper.
func (j *JuwelierExchange) Scrape(ctx context.Context) ([]domain.RawListing, error) {
	doc, err := j.fetch.Page(ctx, srcJuwelierExchange.Key, j.base+"/uhren")
	if err != nil {
		return nil, err
	}

	cards := doc.Find("div.card.product-box[data-product-information]")
	if cards.Length() == 0 {
		return nil, fmt.Errorf("juwelier_exchange: no product cards: %w", ErrShapeChanged)
	}

	listings := make([]domain.RawListing, 0, cards.Length())
	cards.Each(func(_ int, card *goquery.Selection) {
		raw := domain.RawListing{
			SourceKey: srcJuwelierExchange.Key,
			Currency:  domain.CurrencyEUR,
			DetailURL: absURL(j.base, firstAttr(card, "a.card-body-link", "href")),
			ImageURL:  j.cardImage(card),
			PriceText: findText(card, "span.product-price"),
		}
		if raw.DetailURL == "" || raw.DetailURL == j.base {
			return
		}
		listings = append(listings, raw)
	})

	for i := range listings {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		j.enrich(ctx, &listings[i])
	}
	return listings, nil
}

// cardImage picks the best image variant from the srcset, falling back to
// the plain src attribute.
func (j *JuwelierExchange) cardImage(card *goquery.Selection) string {
	img := card.Find("img.product-image").First()
	srcset, _ := img.Attr("srcset")
	src, _ := img.Attr("src")

	if srcset != "" {
		candidates := make([]string, 0, 4)
		for _, entry := range strings.Split(srcset, ",") {
			if f := strings.Fields(strings.TrimSpace(entry)); len(f) > 0 {
				candidates = append(candidates, f[0])
			}
		}
		for _, res := range srcsetResolutions {
			for _, c := range candidates {
				if strings.Contains(c, res) {
					src = c
					break
				}
			}
			if strings.Contains(src, res) {
				break
			}
		}
	}
	return absURL(j.base, src)
}

func (j *JuwelierExchange) enrich(ctx context.Context, raw *domain.RawListing) {
	doc, err := j.fetch.Page(ctx, srcJuwelierExchange.Key, raw.DetailURL)
	if err != nil {
		j.fetch.log.Warn("detail fetch failed",
			"source", srcJuwelierExchange.Key, "url", raw.DetailURL, "error", err)
		return
	}

	var title, desc string
	if prod, ok := productJSONLD(doc); ok {
		title = prod.Name
		raw.Brand = prod.BrandName()
		raw.Reference = prod.SKU
		raw.ConditionText = prod.Condition()
		desc = prod.Description
	}
	if title == "" {
		title = findText(doc.Selection, "h1.product-detail-name")
	}

	fields := tableFields(
		doc.Find("table.product-detail-properties-table").First(),
		"tr.properties-row", "th.properties-label", "td.properties-value",
	)
	if raw.Reference == "" {
		raw.Reference = fieldOf(fields, "artikelnummer")
	}
	if raw.Brand == "" {
		raw.Brand = fieldOf(fields, "marke")
	}
	if raw.ConditionText == "" {
		raw.ConditionText = fieldOf(fields, "zustand")
	}

	if vis := findText(doc.Selection, `div.product-detail-description-text[itemprop="description"]`); vis != "" {
		desc = vis
	}
	raw.YearText = desc
	raw.DetailText = desc
	raw.Model = modelFromTitle(title, raw.Brand)
}
