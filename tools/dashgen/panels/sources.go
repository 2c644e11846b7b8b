package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// ListingsRate graphs listings extracted per minute, per source.
func ListingsRate() *timeseries.PanelBuilder {
	return graphPanel("Listings / min", "Rate of listings extracted per minute, per source", SpanThird).
		WithTarget(PromQuery(`wm:source_listings:rate5m * 60`, "{{source}}", "A")).
		Legend(TableLegend("mean", "max")).
		Tooltip(SharedTooltip())
}

// SourceFailures graphs per-source fetch failures and retry attempts
// per minute.
func SourceFailures() *timeseries.PanelBuilder {
	return graphPanel("Fetch Failures / min", "Source fetch failures after retry and retry attempts, per source", SpanThird).
		WithTarget(PromQuery(`wm:source_failures:rate5m * 60`, "{{source}} failures", "A")).
		WithTarget(PromQuery(
			`sum by (source) (rate(wm_source_retries_total{job="watch-monitor"}[5m])) * 60`,
			"{{source}} retries", "B",
		)).
		Tooltip(SharedTooltip()).
		Thresholds(WarnCritThresholds(0.1, 1)).
		ColorScheme(ThresholdColors())
}

// ScrapeDuration graphs the p95 scrape duration, per source.
func ScrapeDuration() *timeseries.PanelBuilder {
	return graphPanel("Scrape Duration (p95)", "95th percentile scrape duration, per source", SpanThird).
		WithTarget(PromQuery(
			quantileOver("0.95", "wm_source_scrape_duration_seconds_bucket", "source"),
			"{{source}}", "A",
		)).
		Unit("s").
		Tooltip(SharedTooltip())
}
