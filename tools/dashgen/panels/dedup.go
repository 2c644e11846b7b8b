package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/bargauge"
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// NewListingsRate graphs listings decided unseen per minute, per source.
func NewListingsRate() *timeseries.PanelBuilder {
	return graphPanel("New Listings / min", "Rate of listings decided unseen per minute, per source", SpanThird).
		WithTarget(PromQuery(`wm:new_listings:rate5m * 60`, "{{source}}", "A")).
		Legend(TableLegend("mean", "max")).
		Tooltip(SharedTooltip())
}

// SeenBySource shows the current seen-set size per source as horizontal
// bars.
func SeenBySource() *bargauge.PanelBuilder {
	return bargauge.NewPanelBuilder().
		Title("Seen by Source").
		Description("Current number of tracked fingerprints, per source").
		Datasource(DatasourceVar()).
		Height(HeightGraph).
		Span(SpanThird).
		WithTarget(PromQuery(`wm_seen_set_size{job="watch-monitor"}`, "{{source}}", "A")).
		Orientation(common.VizOrientationHorizontal).
		Min(0).
		Thresholds(GreenThresholds()).
		ColorScheme(PaletteColors())
}

// StorageErrors counts seen-set storage errors over the last day.
func StorageErrors() *stat.PanelBuilder {
	return statPanel("Storage Errors (24h)", "Seen-set storage errors in the last 24 hours", SpanThird).
		Height(HeightGraph).
		WithTarget(PromQuery(
			`increase(wm_storage_errors_total{job="watch-monitor"}[24h])`,
			"", "A",
		)).
		Thresholds(WarnCritThresholds(1, 5)).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}
