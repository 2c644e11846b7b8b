package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
)

// HealthzStat shows the liveness probe as a red/green block.
func HealthzStat() *stat.PanelBuilder {
	return statPanel("Healthz", "Health check status (1 = ok, 0 = failing)", SpanQuarter).
		WithTarget(PromQuery(`wm_healthz_up`, "", "A")).
		Thresholds(UpDownThresholds(1)).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeNone).
		TextMode(common.BigValueTextModeValue)
}

// ReadyzStat shows the readiness probe as a red/green block.
func ReadyzStat() *stat.PanelBuilder {
	return statPanel("Readyz", "Readiness check status (1 = ready, 0 = not ready)", SpanQuarter).
		WithTarget(PromQuery(`wm_readyz_up`, "", "A")).
		Thresholds(UpDownThresholds(1)).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeNone).
		TextMode(common.BigValueTextModeValue)
}

// UptimeStat shows time since process start.
func UptimeStat() *stat.PanelBuilder {
	return statPanel("Uptime", "Time since process start", SpanQuarter).
		WithTarget(PromQuery(
			`time() - process_start_time_seconds{job="watch-monitor"}`,
			"", "A",
		)).
		Unit("s").
		Thresholds(GreenThresholds()).
		GraphMode(common.BigValueGraphModeNone)
}

// SeenTotalStat shows the combined seen-set size with a sparkline.
func SeenTotalStat() *stat.PanelBuilder {
	return statPanel("Seen Records", "Total fingerprints tracked across all sources", SpanQuarter).
		WithTarget(PromQuery(`sum(wm_seen_set_size{job="watch-monitor"})`, "", "A")).
		Unit("short").
		Thresholds(GreenThresholds()).
		GraphMode(common.BigValueGraphModeArea)
}
