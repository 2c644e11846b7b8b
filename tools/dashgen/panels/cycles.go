package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// CycleRate graphs cycles started per hour.
func CycleRate() *timeseries.PanelBuilder {
	return graphPanel("Cycles / hour", "Monitor cycles started per hour", SpanThird).
		WithTarget(PromQuery(
			`increase(wm_cycles_total{job="watch-monitor"}[1h])`,
			"cycles/h", "A",
		))
}

// CycleDuration graphs the p95 cycle duration.
func CycleDuration() *timeseries.PanelBuilder {
	return graphPanel("Cycle Duration (p95)", "95th percentile monitor cycle duration", SpanThird).
		WithTarget(PromQuery(
			quantileOver("0.95", "wm_cycle_duration_seconds_bucket"),
			"p95", "A",
		)).
		Unit("s")
}

// CycleSkips graphs skipped ticks. A skip means the previous cycle was
// still running when the next tick fired; sustained skips point at an
// interval too short for the configured sources.
func CycleSkips() *timeseries.PanelBuilder {
	return graphPanel("Skipped Ticks / hour", "Cycle ticks skipped because the previous cycle was still running", SpanThird).
		WithTarget(PromQuery(
			`increase(wm_cycle_skipped_total{job="watch-monitor"}[1h])`,
			"skips/h", "A",
		)).
		Thresholds(WarnCritThresholds(1, 3)).
		ColorScheme(ThresholdColors())
}
