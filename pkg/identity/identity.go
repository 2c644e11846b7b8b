// Package identity derives the deterministic fingerprint that
// deduplicates listings across cycles and restarts.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strconv"
	"strings"

	domain "github.com/sfeuerstein/watch-monitor/pkg/types"
)

// sep joins key fields. The ASCII unit separator cannot appear in
// normalized listing text, so fields can never bleed into each other.
const sep = "\x1f"

// Fingerprint computes the dedup identity of a canonical listing.
//
// The key is brand|model|reference when a reference is known, otherwise
// brand|model|detailURLPath|hashPrice. Field order and the fallback rule
// are frozen: changing either orphans every fingerprint already persisted
// in the seen-set.
func Fingerprint(l *domain.Listing) string {
	fields := []string{l.Brand, l.Model}

	if strings.TrimSpace(l.Reference) != "" {
		fields = append(fields, l.Reference)
	} else {
		fields = append(fields, urlPath(l.DetailURL), hashPriceField(l.HashPrice))
	}

	for i, f := range fields {
		fields[i] = strings.ToLower(strings.TrimSpace(f))
	}

	sum := sha256.Sum256([]byte(strings.Join(fields, sep)))
	return hex.EncodeToString(sum[:])
}

// urlPath reduces a detail URL to its path component so that volatile
// query strings (session IDs, tracking params) never change identity.
// Unparsable URLs are used verbatim.
func urlPath(detailURL string) string {
	u, err := url.Parse(detailURL)
	if err != nil || u.Path == "" {
		return detailURL
	}
	return u.Path
}

// hashPriceField renders the minor-unit price for the fallback key. An
// absent price contributes the empty string, still delimited.
func hashPriceField(p *int64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatInt(*p, 10)
}
