package scrape_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfeuerstein/watch-monitor/internal/scrape"
)

func TestFetcher_Page(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		handler     http.HandlerFunc
		wantErr     bool
		wantStatus  int
		rateLimited bool
	}{
		{
			name: "parses html and sends user agent",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "watch-monitor-test", r.Header.Get("User-Agent"))
				_, _ = w.Write([]byte(`<html><body><h1>Neuheiten</h1></body></html>`))
			},
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			wantErr:    true,
			wantStatus: http.StatusNotFound,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantErr:    true,
			wantStatus: http.StatusInternalServerError,
		},
		{
			name: "rate limited",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
			wantErr:     true,
			wantStatus:  http.StatusTooManyRequests,
			rateLimited: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(tt.handler)
			t.Cleanup(srv.Close)

			f := scrape.NewFetcher("watch-monitor-test", 5*time.Second, 0)
			doc, err := f.Page(context.Background(), "test", srv.URL+"/page")

			if tt.wantErr {
				require.Error(t, err)

				var fe *scrape.FetchError
				require.ErrorAs(t, err, &fe)
				assert.Equal(t, tt.wantStatus, fe.Status)
				assert.Equal(t, srv.URL+"/page", fe.URL)
				if tt.rateLimited {
					assert.ErrorIs(t, err, scrape.ErrRateLimited)
				}
				return
			}

			require.NoError(t, err)
			require.NotNil(t, doc)
			assert.Equal(t, "Neuheiten", doc.Find("h1").Text())
		})
	}
}

func TestFetcher_Page_TransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(
		func(_ http.ResponseWriter, _ *http.Request) {},
	))
	srv.Close()

	f := scrape.NewFetcher("watch-monitor-test", time.Second, 0)
	_, err := f.Page(context.Background(), "test", srv.URL)

	var fe *scrape.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Zero(t, fe.Status)
	assert.Error(t, fe.Err)
}

func TestFetcher_Page_ContextCanceled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("<html></html>"))
		},
	))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := scrape.NewFetcher("watch-monitor-test", time.Second, 0)
	_, err := f.Page(ctx, "test", srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetcher_Page_PolitenessDelay(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("<html></html>"))
		},
	))
	t.Cleanup(srv.Close)

	const delay = 60 * time.Millisecond
	f := scrape.NewFetcher("watch-monitor-test", time.Second, delay)

	// Three requests against one source pay the delay twice.
	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := f.Page(context.Background(), "same", srv.URL)
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 2*delay)
}

func TestFetcher_Page_PerSourceLimiters(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("<html></html>"))
		},
	))
	t.Cleanup(srv.Close)

	// A long delay on one source must not stall another.
	f := scrape.NewFetcher("watch-monitor-test", time.Second, 10*time.Second)

	_, err := f.Page(context.Background(), "first", srv.URL)
	require.NoError(t, err)

	start := time.Now()
	_, err = f.Page(context.Background(), "second", srv.URL)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)
}
