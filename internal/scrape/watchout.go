package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	domain "github.com/sfeuerstein/watch-monitor/pkg/types"
)

var srcWatchOut = domain.Source{
	Key:         "watch_out",
	Name:        "Watch Out",
	Currency:    domain.CurrencyEUR,
	AccentColor: 0xC0C0C0,
}

const watchOutBase = "https://www.watch-out.shop"

// shopifyMetaRe grabs the analytics meta object Shopify inlines into
// every storefront page.
var shopifyMetaRe = regexp.MustCompile(`(?s)var meta = (\{.*?\});`)

// WatchOut scrapes the Watch Out Shopify store. Product cards carry
// title, brand and price; the inlined ShopifyAnalytics meta supplements
// SKU and exact prices, keyed by product handle.
type WatchOut struct {
	fetch *Fetcher
	base  string
}

// NewWatchOut creates the adapter. An empty baseURL selects the live
// site.
func NewWatchOut(f *Fetcher, baseURL string) *WatchOut {
	if baseURL == "" {
		baseURL = watchOutBase
	}
	return &WatchOut{fetch: f, base: strings.TrimSuffix(baseURL, "/")}
}

// Source implements Scraper.
func (w *WatchOut) Source() domain.Source { return srcWatchOut }

// shopifyProduct is one entry of the analytics meta, reduced to the
// fields worth merging into a card.
type shopifyProduct struct {
	vendor     string
	title      string
	sku        string
	priceCents int64
}

// Scrape implements Scraper.
func (w *WatchOut) Scrape(ctx context.Context) ([]domain.RawListing, error) {
	index := w.base + "/collections/gebrauchte-uhren?sort_by=created-descending"
	doc, err := w.fetch.Page(ctx, srcWatchOut.Key, index)
	if err != nil {
		return nil, err
	}

	cards := doc.Find("product-card")
	if cards.Length() == 0 {
		return nil, fmt.Errorf("watch_out: no product cards: %w", ErrShapeChanged)
	}
	meta := w.shopifyMeta(doc)

	type indexItem struct {
		raw   domain.RawListing
		title string
	}
	var items []indexItem
	cards.Each(func(_ int, card *goquery.Selection) {
		if card.Find("sold-out-badge").Length() > 0 {
			return
		}

		item := indexItem{
			raw: domain.RawListing{
				SourceKey: srcWatchOut.Key,
				Currency:  domain.CurrencyEUR,
				Brand:     findText(card, ".product-card__info a.text-xs.link-faded"),
				PriceText: findText(card, "sale-price"),
				ImageURL:  absURL(w.base, firstAttr(card, "img.product-card__image", "src", "data-src")),
			},
			title: findText(card, ".product-card__title a.bold"),
		}

		handle := w.cardHandle(card)
		if handle == "" {
			return
		}
		item.raw.DetailURL = w.base + "/products/" + handle

		if badge := findText(card, ".product-card__badge-list span.badge--primary"); badge != "" {
			item.raw.Reference = referenceRe.FindString(badge)
		}

		// Merge the analytics entry for this handle.
		if p, ok := meta[handle]; ok {
			if item.raw.Brand == "" {
				item.raw.Brand = p.vendor
			}
			if item.raw.Reference == "" {
				item.raw.Reference = p.sku
			}
			if item.title == "" && !strings.EqualFold(p.title, "default title") {
				item.title = p.title
			}
			if p.priceCents > 0 {
				item.raw.PriceText = fmt.Sprintf("%d,%02d €",
					p.priceCents/100, p.priceCents%100)
			}
		}
		items = append(items, item)
	})

	listings := make([]domain.RawListing, 0, len(items))
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		w.enrich(ctx, &item.raw, item.title)
		listings = append(listings, item.raw)
	}
	return listings, nil
}

// cardHandle resolves the Shopify product handle from the card element or
// its product link.
func (w *WatchOut) cardHandle(card *goquery.Selection) string {
	if handle, ok := card.Attr("handle"); ok && handle != "" {
		return handle
	}
	href := firstAttr(card, `a[href*="/products/"]`, "href")
	_, after, ok := strings.Cut(href, "/products/")
	if !ok {
		return ""
	}
	handle, _, _ := strings.Cut(after, "?")
	return handle
}

// shopifyMeta parses the ShopifyAnalytics meta blob into a handle-keyed
// map. A page without the blob yields an empty map, never an error.
func (w *WatchOut) shopifyMeta(doc *goquery.Document) map[string]shopifyProduct {
	products := make(map[string]shopifyProduct)

	doc.Find("script").EachWithBreak(func(_ int, script *goquery.Selection) bool {
		text := script.Text()
		if !strings.Contains(text, "window.ShopifyAnalytics.meta") {
			return true
		}
		m := shopifyMetaRe.FindStringSubmatch(text)
		if m == nil {
			return true
		}

		var meta struct {
			Products []struct {
				Vendor            string `json:"vendor"`
				Title             string `json:"title"`
				UntranslatedTitle string `json:"untranslatedTitle"`
				Variants          []struct {
					Name    string `json:"name"`
					Price   int64  `json:"price"`
					SKU     string `json:"sku"`
					Product struct {
						URL string `json:"url"`
					} `json:"product"`
				} `json:"variants"`
			} `json:"products"`
		}
		if err := json.Unmarshal([]byte(m[1]), &meta); err != nil {
			w.fetch.log.Warn("shopify meta unparsable",
				"source", srcWatchOut.Key, "error", err)
			return false
		}

		for _, p := range meta.Products {
			if len(p.Variants) == 0 {
				continue
			}
			v := p.Variants[0]
			_, after, ok := strings.Cut(v.Product.URL, "/products/")
			if !ok {
				continue
			}
			handle, _, _ := strings.Cut(after, "?")

			title := v.Name
			if title == "" || strings.EqualFold(title, "default title") {
				title = p.UntranslatedTitle
				if title == "" {
					title = p.Title
				}
			}
			products[handle] = shopifyProduct{
				vendor:     p.Vendor,
				title:      title,
				sku:        v.SKU,
				priceCents: v.Price,
			}
		}
		return false
	})
	return products
}

// enrich scans the detail page's Product node and visible details block
// for year and box/papers wording.
func (w *WatchOut) enrich(ctx context.Context, raw *domain.RawListing, title string) {
	doc, err := w.fetch.Page(ctx, srcWatchOut.Key, raw.DetailURL)
	if err != nil {
		w.fetch.log.Warn("detail fetch failed",
			"source", srcWatchOut.Key, "url", raw.DetailURL, "error", err)
	} else {
		if prod, ok := productJSONLD(doc); ok {
			raw.DetailText = prod.Description
			raw.YearText = prod.Description
			if raw.ConditionText == "" {
				raw.ConditionText = prod.Condition()
			}
		}
		if details := findText(doc.Selection, ".product__details"); details != "" {
			raw.DetailText += " " + details
			if raw.YearText == "" {
				raw.YearText = details
			}
		}
	}

	raw.Model = modelFromTitle(title, raw.Brand)
}
