package scrape

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	domain "github.com/sfeuerstein/watch-monitor/pkg/types"
)

var srcRueschenbeck = domain.Source{
	Key:         "rueschenbeck",
	Name:        "Rüschenbeck",
	Currency:    domain.CurrencyEUR,
	AccentColor: 0xCFB53B,
}

const rueschenbeckBase = "https://www.rueschenbeck.de"

// rbRefRe takes the leading token of a product name, which Rüschenbeck
// uses for the reference.
var rbRefRe = regexp.MustCompile(`^([A-Za-z0-9\-./]+)`)

// Rueschenbeck scrapes the Rüschenbeck certified pre-owned and vintage
// category. Index items expose brand, line and product name separately;
// the detail page carries labeled attribute paragraphs instead of a
// table.
type Rueschenbeck struct {
	fetch *Fetcher
	base  string
}

// NewRueschenbeck creates the adapter. An empty baseURL selects the live
// site.
func NewRueschenbeck(f *Fetcher, baseURL string) *Rueschenbeck {
	if baseURL == "" {
		baseURL = rueschenbeckBase
	}
	return &Rueschenbeck{fetch: f, base: strings.TrimSuffix(baseURL, "/")}
}

// Source implements Scraper.
func (r *Rueschenbeck) Source() domain.Source { return srcRueschenbeck }

// Scrape implements Scraper.
func (r *Rueschenbeck) Scrape(ctx context.Context) ([]domain.RawListing, error) {
	doc, err := r.fetch.Page(ctx, srcRueschenbeck.Key, r.base+"/vintage-certified-pre-owned")
	if err != nil {
		return nil, err
	}

	cards := doc.Find("li.-rb-list-item")
	if cards.Length() == 0 {
		return nil, fmt.Errorf("rueschenbeck: no list items: %w", ErrShapeChanged)
	}

	listings := make([]domain.RawListing, 0, cards.Length())
	cards.Each(func(_ int, card *goquery.Selection) {
		sold := findText(card,
			".-rb-availability .out-of-stock span.value, .-rb-availability .sold span.value")
		if strings.Contains(strings.ToLower(sold), "verkauft") {
			return
		}

		raw := r.card(card)
		if raw.DetailURL == "" || raw.DetailURL == r.base {
			return
		}
		listings = append(listings, raw)
	})

	for i := range listings {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r.enrich(ctx, &listings[i])
	}
	return listings, nil
}

func (r *Rueschenbeck) card(card *goquery.Selection) domain.RawListing {
	raw := domain.RawListing{
		SourceKey: srcRueschenbeck.Key,
		Currency:  domain.CurrencyEUR,
		DetailURL: absURL(r.base, firstAttr(card, "a.-rb-list-item-link", "href")),
		ImageURL:  absURL(r.base, firstAttr(card, ".-rb-list-image img", "src")),
		Brand:     findText(card, "span.-rb-manufacturer-name"),
		Model:     findText(card, "span.-rb-line-name"),
	}

	// Product names start with the reference; "Certified" and short
	// plain numbers are noise, not references.
	prodName := findText(card, "span.-rb-prod-name")
	if m := rbRefRe.FindString(prodName); m != "" {
		if !strings.EqualFold(m, "certified") && !(isNumeric(m) && len(m) < 4) {
			raw.Reference = m
		}
	}

	raw.PriceText = findText(card, ".price-box p.special-price span.price")
	if raw.PriceText == "" {
		raw.PriceText = findText(card, ".price-box span.regular-price span.price")
	}

	if card.Find("span.-rb-icon.icn-cpo").Length() > 0 {
		raw.ConditionText = "Certified Pre-Owned"
	}
	return raw
}

func (r *Rueschenbeck) enrich(ctx context.Context, raw *domain.RawListing) {
	doc, err := r.fetch.Page(ctx, srcRueschenbeck.Key, raw.DetailURL)
	if err != nil {
		r.fetch.log.Warn("detail fetch failed",
			"source", srcRueschenbeck.Key, "url", raw.DetailURL, "error", err)
		return
	}

	cpo := tableFields(
		doc.Find("div.additional-info-cpo").First(),
		"p", "strong", "span.data",
	)
	raw.YearText = fieldOf(cpo, "jahr", "year")
	if raw.ConditionText == "" {
		raw.ConditionText = fieldOf(cpo, "zustand", "condition")
	}

	attrs := tableFields(
		doc.Find("div.additional-info div.rolex-textwrapper").First(),
		`p[class*="attr-"]`, "strong", "span.data",
	)
	if ref := fieldOf(attrs, "referenz", "reference"); len(ref) > len(raw.Reference) {
		raw.Reference = ref
	}

	// Box and papers come as labeled "Ja"/"Nein" answers; rephrase them
	// so the downstream keyword scan reads them the way a dealer's
	// free-text description would say it.
	var parts []string
	switch strings.ToLower(fieldOf(cpo, "verpackung")) {
	case "ja":
		parts = append(parts, "mit Box")
	case "nein":
		parts = append(parts, "ohne Box")
	case "":
	default:
		parts = append(parts, fieldOf(cpo, "verpackung"))
	}
	switch strings.ToLower(fieldOf(cpo, "papiere")) {
	case "ja":
		parts = append(parts, "mit Papieren")
	case "nein":
		parts = append(parts, "ohne Papiere")
	}
	raw.DetailText = strings.Join(parts, ", ")
}
