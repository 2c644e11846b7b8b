package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sfeuerstein/watch-monitor/internal/scrape"
)

func fixtureDir() string {
	return filepath.Join("..", "..", "internal", "scrape", "testdata")
}

func TestSites_CoverRegistry(t *testing.T) {
	byKey := make(map[string]bool, len(sites))
	for _, s := range sites {
		if byKey[s.key] {
			t.Errorf("duplicate site entry for %s", s.key)
		}
		byKey[s.key] = true
	}

	for _, src := range scrape.Sources() {
		if !byKey[src.Key] {
			t.Errorf("source %s has no site entry", src.Key)
		}
		delete(byKey, src.Key)
	}
	for key := range byKey {
		t.Errorf("site entry %s matches no registered source", key)
	}
}

func TestSiteHandler_ServesIndexAndDetail(t *testing.T) {
	for _, s := range sites {
		handler, err := siteHandler(fixtureDir(), s)
		if err != nil {
			t.Fatalf("building handler for %s: %v", s.key, err)
		}

		// Index path serves the index fixture.
		req := httptest.NewRequest(http.MethodGet, s.indexPath, http.NoBody)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("%s index: status=%d, want 200", s.key, w.Code)
		}
		if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Errorf("%s index: content-type=%s, want text/html", s.key, ct)
		}
		index, err := io.ReadAll(w.Body)
		if err != nil {
			t.Fatalf("reading index body: %v", err)
		}
		if len(index) == 0 {
			t.Errorf("%s index: empty body", s.key)
		}

		// Any other path serves the detail fixture.
		req = httptest.NewRequest(http.MethodGet, "/some/item-42", http.NoBody)
		w = httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("%s detail: status=%d, want 200", s.key, w.Code)
		}
		detail, err := io.ReadAll(w.Body)
		if err != nil {
			t.Fatalf("reading detail body: %v", err)
		}
		if len(detail) == 0 {
			t.Errorf("%s detail: empty body", s.key)
		}
	}
}

func TestSiteHandler_MissingFixtures(t *testing.T) {
	_, err := siteHandler(t.TempDir(), site{key: "worldoftime", indexPath: "/"})
	if err == nil {
		t.Fatal("expected error for missing fixtures")
	}
}
