package scrape

import (
	domain "github.com/sfeuerstein/watch-monitor/pkg/types"
)

// Override tunes one source without touching its adapter. Zero value
// means enabled, live base URL.
type Override struct {
	Disabled bool
	BaseURL  string
}

// builders lists every adapter in stable order. The order carries
// through dispatch and, per source, to notification.
var builders = []struct {
	src   domain.Source
	build func(f *Fetcher, baseURL string) Scraper
}{
	{srcWorldOfTime, func(f *Fetcher, b string) Scraper { return NewWorldOfTime(f, b) }},
	{srcGrimmeissen, func(f *Fetcher, b string) Scraper { return NewGrimmeissen(f, b) }},
	{srcTropicalWatch, func(f *Fetcher, b string) Scraper { return NewTropicalWatch(f, b) }},
	{srcJuwelierExchange, func(f *Fetcher, b string) Scraper { return NewJuwelierExchange(f, b) }},
	{srcWatchOut, func(f *Fetcher, b string) Scraper { return NewWatchOut(f, b) }},
	{srcRueschenbeck, func(f *Fetcher, b string) Scraper { return NewRueschenbeck(f, b) }},
}

// Sources returns the descriptors of all built-in sources in registry
// order, including ones an override disables.
func Sources() []domain.Source {
	out := make([]domain.Source, len(builders))
	for i, b := range builders {
		out[i] = b.src
	}
	return out
}

// BuildAll constructs adapters for every source not disabled by an
// override. Override base URLs point adapters at substitute hosts, which
// is how tests and the sitemock tool run against fixtures.
func BuildAll(f *Fetcher, overrides map[string]Override) []Scraper {
	out := make([]Scraper, 0, len(builders))
	for _, b := range builders {
		ov := overrides[b.src.Key]
		if ov.Disabled {
			continue
		}
		out = append(out, b.build(f, ov.BaseURL))
	}
	return out
}
