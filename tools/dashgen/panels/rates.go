package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// RateLookups graphs exchange-rate API lookups per minute. Lookups are
// cached, so a healthy monitor sits far below one per cycle.
func RateLookups() *timeseries.PanelBuilder {
	return graphPanel("Rate Lookups / min", "Exchange-rate API lookups per minute", SpanHalf).
		WithTarget(PromQuery(
			`rate(wm_rate_lookups_total{job="watch-monitor"}[5m]) * 60`,
			"lookups/min", "A",
		))
}

// RateFallbacks counts uses of the configured fallback exchange rate
// over the last day.
func RateFallbacks() *stat.PanelBuilder {
	return statPanel("Rate Fallbacks (24h)", "Times the fallback exchange rate was used in the last 24 hours", SpanHalf).
		Height(HeightGraph).
		WithTarget(PromQuery(
			`increase(wm_rate_fallbacks_total{job="watch-monitor"}[24h])`,
			"", "A",
		)).
		Thresholds(WarnCritThresholds(1, 10)).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}
