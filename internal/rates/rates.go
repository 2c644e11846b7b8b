// Package rates provides USD to EUR exchange rates for price
// normalization. Rates come from a free JSON endpoint and are cached;
// when the endpoint is unreachable a configured fallback rate keeps
// conversion working, so a rates outage never blocks a cycle.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/sfeuerstein/watch-monitor/internal/metrics"
	domain "github.com/sfeuerstein/watch-monitor/pkg/types"
)

// retryInterval bounds how long a fallback rate is reused before the
// live endpoint is tried again.
const retryInterval = 5 * time.Minute

// Client fetches and caches the USD to EUR conversion rate.
// Thread-safe via mutex.
type Client struct {
	endpoint string
	fallback float64
	ttl      time.Duration
	client   *http.Client

	mu      sync.Mutex
	rate    float64
	expiry  time.Time
	nowFunc func() time.Time // for testing
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Client) {
		r.client = c
	}
}

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) Option {
	return func(r *Client) {
		r.nowFunc = f
	}
}

// New creates a rate client. fallback is returned whenever the endpoint
// cannot be reached or parsed; a fallback of 0 disables it and makes
// lookup failures visible to the caller as errors.
func New(endpoint string, fallback float64, ttl time.Duration, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		fallback: fallback,
		ttl:      ttl,
		client:   &http.Client{Timeout: 10 * time.Second},
		nowFunc:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type ratesResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// Rate returns the conversion factor from the given currency to EUR.
// EUR is the identity. Only USD requires a lookup; the cached value is
// refreshed once its TTL expires.
func (c *Client) Rate(ctx context.Context, from domain.Currency) (float64, error) {
	switch from {
	case domain.CurrencyEUR:
		return 1, nil
	case domain.CurrencyUSD:
	default:
		return 0, fmt.Errorf("unsupported currency %q", from)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rate > 0 && c.nowFunc().Before(c.expiry) {
		return c.rate, nil
	}

	rate, err := c.fetch(ctx)
	if err != nil {
		if c.fallback <= 0 {
			return 0, err
		}
		metrics.RateFallbacksTotal.Inc()
		c.rate = c.fallback
		c.expiry = c.nowFunc().Add(retryInterval)
		return c.fallback, nil
	}

	c.rate = rate
	c.expiry = c.nowFunc().Add(c.ttl)
	return rate, nil
}

func (c *Client) fetch(ctx context.Context) (float64, error) {
	metrics.RateLookupsTotal.Inc()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("creating rates request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("executing rates request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rates request failed (status %d)", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, fmt.Errorf("reading rates response: %w", err)
	}

	var parsed ratesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("parsing rates response: %w", err)
	}

	rate, ok := parsed.Rates["EUR"]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("rates response has no usable EUR rate")
	}

	return rate, nil
}
