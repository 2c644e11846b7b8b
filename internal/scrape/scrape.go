// Package scrape fetches dealer inventory pages and extracts raw listings
// from them. Each source has an adapter that knows its page layout; all
// adapters share one Fetcher for transport and politeness limiting.
// Adapters return source-shaped text untouched, normalization happens
// downstream.
package scrape

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/sfeuerstein/watch-monitor/pkg/types"
)

// ErrShapeChanged reports that a page no longer matches the selectors an
// adapter relies on: the fetch succeeded but no listing cards were found
// where some must exist.
var ErrShapeChanged = errors.New("page structure changed")

// ErrRateLimited reports that a source answered HTTP 429.
var ErrRateLimited = errors.New("rate limited by source")

// FetchError reports a failed page fetch: a transport error, a timeout,
// or a non-success HTTP status.
type FetchError struct {
	URL    string
	Status int // zero when no response arrived
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetching %s: HTTP %d", e.URL, e.Status)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Scraper extracts the currently visible listings from one source.
type Scraper interface {
	// Source identifies the adapter and carries its display styling.
	Source() domain.Source

	// Scrape fetches the source's inventory page and returns every
	// listing on it, in page order. Failures are source-scoped:
	// *FetchError, ErrRateLimited, or ErrShapeChanged wrapped with
	// context. Detail-page enrichment failures degrade single listings
	// and are not reported here.
	Scrape(ctx context.Context) ([]domain.RawListing, error)
}
