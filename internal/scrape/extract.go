package scrape

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sfeuerstein/watch-monitor/pkg/normalize"
)

// referenceRe matches a plausible reference number in free text: three or
// more uppercase alphanumerics, optionally continued after -, / or space.
var referenceRe = regexp.MustCompile(`\b([A-Z0-9]{3,}(?:[-/\s]?[A-Z0-9]+)?)\b`)

// absURL resolves href against base. Unresolvable input comes back
// unchanged so a broken page yields an odd URL rather than none.
func absURL(base, href string) string {
	if href == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(ref).String()
}

// textOf returns the cleaned text content of a selection.
func textOf(sel *goquery.Selection) string {
	return normalize.CleanText(sel.Text())
}

// findText returns the cleaned text of the first match under sel.
func findText(sel *goquery.Selection, selector string) string {
	return textOf(sel.Find(selector).First())
}

// firstAttr returns the first non-empty attribute among names on the
// first match of selector under sel.
func firstAttr(sel *goquery.Selection, selector string, names ...string) string {
	el := sel.Find(selector).First()
	for _, name := range names {
		if v, ok := el.Attr(name); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// tableFields collects key/value rows under root into a map. Keys are
// lowercased with any trailing colon removed, so "Referenz:" and
// "Reference" both land on predictable lookups.
func tableFields(root *goquery.Selection, rowSel, keySel, valSel string) map[string]string {
	fields := make(map[string]string)
	root.Find(rowSel).Each(func(_ int, row *goquery.Selection) {
		key := strings.TrimSuffix(textOf(row.Find(keySel).First()), ":")
		key = strings.ToLower(key)
		if key == "" {
			return
		}
		if val := textOf(row.Find(valSel).First()); val != "" {
			fields[key] = val
		}
	})
	return fields
}

// fieldOf returns the value of the first key present in fields. The
// detail tables label the same attribute in German or English depending
// on the site, sometimes on the visitor's locale.
func fieldOf(fields map[string]string, keys ...string) string {
	for _, k := range keys {
		if v, ok := fields[k]; ok {
			return v
		}
	}
	return ""
}

// productLD is the subset of a schema.org Product node the adapters read.
// Brand and offers arrive in several shapes across storefronts, so both
// stay raw until accessed.
type productLD struct {
	Type        string          `json:"@type"`
	Name        string          `json:"name"`
	Brand       json.RawMessage `json:"brand"`
	SKU         string          `json:"sku"`
	Description string          `json:"description"`
	Offers      json.RawMessage `json:"offers"`
}

// BrandName unpacks the brand node, which is either {"name": "..."} or a
// plain string.
func (p *productLD) BrandName() string {
	if len(p.Brand) == 0 {
		return ""
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(p.Brand, &obj); err == nil && obj.Name != "" {
		return normalize.CleanText(obj.Name)
	}
	var s string
	if err := json.Unmarshal(p.Brand, &s); err == nil {
		return normalize.CleanText(s)
	}
	return ""
}

// Condition maps the schema.org itemCondition URI onto the label the
// storefront itself would show. The sites carrying Product JSON-LD are
// German shops, so the labels are German.
func (p *productLD) Condition() string {
	if len(p.Offers) == 0 {
		return ""
	}
	var obj struct {
		ItemCondition string `json:"itemCondition"`
	}
	if err := json.Unmarshal(p.Offers, &obj); err != nil {
		return ""
	}
	switch {
	case strings.Contains(obj.ItemCondition, "NewCondition"):
		return "Neu"
	case strings.Contains(obj.ItemCondition, "UsedCondition"):
		return "Gebraucht"
	case strings.Contains(obj.ItemCondition, "RefurbishedCondition"):
		return "Aufgearbeitet"
	}
	return ""
}

// productJSONLD scans the document's ld+json scripts for a Product node.
func productJSONLD(doc *goquery.Document) (productLD, bool) {
	var (
		found bool
		prod  productLD
	)
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(
		func(_ int, script *goquery.Selection) bool {
			var p productLD
			if err := json.Unmarshal([]byte(script.Text()), &p); err != nil {
				return true
			}
			if p.Type != "Product" {
				return true
			}
			prod = p
			found = true
			return false
		})
	return prod, found
}

// modelFromTitle infers a model name from a listing title once the brand
// is known: strip the brand, drop pure numbers (years, sizes), keep the
// first three remaining words.
func modelFromTitle(title, brand string) string {
	rest := title
	if brand != "" {
		rest = strings.ReplaceAll(rest, brand, "")
	}
	words := make([]string, 0, 3)
	for _, w := range strings.Fields(rest) {
		if isNumeric(w) {
			continue
		}
		words = append(words, w)
		if len(words) == 3 {
			break
		}
	}
	return strings.Join(words, " ")
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
