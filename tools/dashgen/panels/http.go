package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// RequestRate graphs HTTP requests per second from the recorded rate.
func RequestRate() *timeseries.PanelBuilder {
	return graphPanel("Request Rate", "HTTP requests per second", SpanHalf).
		WithTarget(PromQuery(`wm:http_requests:rate5m`, "req/s", "A")).
		Unit("reqps").
		Legend(TableLegend("mean", "max")).
		Tooltip(SharedTooltip())
}

// LatencyPercentiles graphs p50, p95, and p99 request latency.
func LatencyPercentiles() *timeseries.PanelBuilder {
	p := graphPanel("Latency Percentiles", "HTTP request duration percentiles", SpanHalf).
		Unit("s").
		Legend(TableLegend("mean", "max")).
		Tooltip(SharedTooltip())

	quantiles := []struct {
		q, legend, ref string
	}{
		{"0.50", "p50", "A"},
		{"0.95", "p95", "B"},
		{"0.99", "p99", "C"},
	}
	for _, qt := range quantiles {
		p = p.WithTarget(PromQuery(
			quantileOver(qt.q, "wm_http_request_duration_seconds_bucket"),
			qt.legend, qt.ref,
		))
	}
	return p
}

// ErrorRate graphs 5xx responses as a share of all requests.
func ErrorRate() *timeseries.PanelBuilder {
	return graphPanel("Error Rate %", "HTTP 5xx error rate as percentage of total requests", SpanHalf).
		WithTarget(PromQuery(
			`wm:http_errors:rate5m / wm:http_requests:rate5m * 100`,
			"error %", "A",
		)).
		Unit("percent").
		Thresholds(WarnCritThresholds(1, 5)).
		ColorScheme(ThresholdColors())
}
