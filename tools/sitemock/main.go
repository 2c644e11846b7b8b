// Package main implements a mock dealer-site server for local development.
// It serves the adapter HTML fixtures so the monitor can run full cycles
// without touching real dealer sites: point each source's base_url at this
// server's per-source prefix, for example
// http://localhost:8099/worldoftime.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// site maps one source prefix to the index path its adapter requests.
// Query strings are ignored; every other path under the prefix serves
// the detail fixture.
type site struct {
	key       string
	indexPath string
}

var sites = []site{
	{"worldoftime", "/Watches/NewArrivals"},
	{"grimmeissen", "/de/uhren"},
	{"tropicalwatch", "/"},
	{"juwelier_exchange", "/uhren"},
	{"watch_out", "/collections/gebrauchte-uhren"},
	{"rueschenbeck", "/vintage-certified-pre-owned"},
}

func main() {
	port := flag.Int("port", 8099, "port to listen on")
	fixtures := flag.String("fixtures", "internal/scrape/testdata",
		"directory with <source>_{index,detail}.html fixtures")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	mux := http.NewServeMux()
	for _, s := range sites {
		handler, err := siteHandler(*fixtures, s)
		if err != nil {
			logger.Error("failed to load fixtures", "source", s.key, "error", err)
			os.Exit(1)
		}
		mux.Handle("/"+s.key+"/", http.StripPrefix("/"+s.key, handler))
		logger.Info("mounted source",
			"source", s.key,
			"base_url", fmt.Sprintf("http://localhost:%d/%s", *port, s.key),
		)
	}

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock dealer server", "addr", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// siteHandler serves one source's fixtures: the index page on its index
// path, the detail page everywhere else.
func siteHandler(dir string, s site) (http.Handler, error) {
	index, err := os.ReadFile(filepath.Join(dir, s.key+"_index.html")) //nolint:gosec // fixture path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading index fixture: %w", err)
	}
	detail, err := os.ReadFile(filepath.Join(dir, s.key+"_detail.html")) //nolint:gosec // fixture path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading detail fixture: %w", err)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")

		path := r.URL.Path
		if path == "" {
			path = "/"
		}

		body := detail
		if path == s.indexPath {
			body = index
		}
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		w.Write(body)
	}), nil
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery)
		next.ServeHTTP(w, r)
	})
}
