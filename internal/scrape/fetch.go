package scrape

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

// maxBodySize caps how much of a response body is parsed. Dealer pages
// are heavy but never this heavy; anything larger is broken.
const maxBodySize = 8 << 20

// Fetcher is the shared HTTP transport for all adapters. A token bucket
// per source enforces a minimum delay between that source's requests, so
// detail-page enrichment cannot hammer a dealer site.
type Fetcher struct {
	client    *http.Client
	userAgent string
	delay     time.Duration
	log       *slog.Logger

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// FetcherOption configures the Fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.client = hc
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		f.log = l
	}
}

// NewFetcher creates a Fetcher with the given User-Agent, per-request
// timeout, and minimum delay between same-source requests.
func NewFetcher(
	userAgent string,
	timeout, delay time.Duration,
	opts ...FetcherOption,
) *Fetcher {
	f := &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		delay:     delay,
		log:       slog.Default(),
		limiters:  make(map[string]*rate.Limiter),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Page fetches one page for source and parses it. All fetch failures
// come back as *FetchError; HTTP 429 additionally matches ErrRateLimited.
func (f *Fetcher) Page(
	ctx context.Context,
	source, pageURL string,
) (*goquery.Document, error) {
	if err := f.limiter(source).Wait(ctx); err != nil {
		return nil, &FetchError{URL: pageURL, Err: err}
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, pageURL, http.NoBody,
	)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &FetchError{
			URL:    pageURL,
			Status: resp.StatusCode,
			Err:    ErrRateLimited,
		}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &FetchError{URL: pageURL, Status: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(
		io.LimitReader(resp.Body, maxBodySize),
	)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", pageURL, err)
	}
	return doc, nil
}

// limiter returns the politeness limiter for source, creating it on first
// use. Burst 1 makes the configured delay a hard minimum between
// consecutive requests to the same source.
func (f *Fetcher) limiter(source string) *rate.Limiter {
	f.mu.Lock()
	defer f.mu.Unlock()

	lim, ok := f.limiters[source]
	if !ok {
		every := rate.Inf
		if f.delay > 0 {
			every = rate.Every(f.delay)
		}
		lim = rate.NewLimiter(every, 1)
		f.limiters[source] = lim
	}
	return lim
}
