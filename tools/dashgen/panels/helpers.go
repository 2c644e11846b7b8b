// Package panels builds the Grafana panels for the monitor dashboard.
// Every query goes through the ${datasource} variable so one dashboard
// works against any Prometheus that scrapes the monitor.
package panels

import (
	"fmt"
	"strings"

	"github.com/grafana/grafana-foundation-sdk/go/cog"
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/grafana/grafana-foundation-sdk/go/prometheus"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// Grid sizing on Grafana's 24-column grid.
const (
	SpanQuarter = 6
	SpanThird   = 8
	SpanHalf    = 12

	HeightStat  = 4
	HeightGraph = 8
)

// DatasourceVar references the dashboard's ${datasource} variable.
func DatasourceVar() dashboard.DataSourceRef {
	return dashboard.DataSourceRef{
		Type: cog.ToPtr("prometheus"),
		Uid:  cog.ToPtr("${datasource}"),
	}
}

// PromQuery builds one Prometheus target.
func PromQuery(expr, legend, refID string) *prometheus.DataqueryBuilder {
	return prometheus.NewDataqueryBuilder().
		Expr(expr).
		LegendFormat(legend).
		RefId(refID)
}

// quantileOver builds a histogram_quantile over a 5m rate of the given
// bucket metric, grouped by le plus any extra labels.
func quantileOver(q, bucketMetric string, by ...string) string {
	group := strings.Join(append([]string{"le"}, by...), ", ")
	return fmt.Sprintf(
		`histogram_quantile(%s, sum(rate(%s{job="watch-monitor"}[5m])) by (%s))`,
		q, bucketMetric, group,
	)
}

// graphPanel is the line-graph base every timeseries panel here starts
// from. Callers override thresholds and colors where the value has a
// bad side.
func graphPanel(title, description string, span uint32) *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title(title).
		Description(description).
		Datasource(DatasourceVar()).
		Height(HeightGraph).
		Span(span).
		FillOpacity(10).
		LineWidth(2).
		DrawStyle(common.GraphDrawStyleLine).
		Thresholds(GreenThresholds()).
		ColorScheme(PaletteColors())
}

// statPanel is the single-value base; color tracks the thresholds.
func statPanel(title, description string, span uint32) *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title(title).
		Description(description).
		Datasource(DatasourceVar()).
		Height(HeightStat).
		Span(span).
		ColorScheme(ThresholdColors())
}

// thresholdSteps assembles an absolute-mode threshold config. The first
// step has no value, which Grafana reads as negative infinity.
func thresholdSteps(steps ...dashboard.Threshold) cog.Builder[dashboard.ThresholdsConfig] {
	return dashboard.NewThresholdsConfigBuilder().
		Mode(dashboard.ThresholdsModeAbsolute).
		Steps(steps)
}

// UpDownThresholds colors red below okAt and green from okAt up, for
// 0/1 probe gauges.
func UpDownThresholds(okAt float64) cog.Builder[dashboard.ThresholdsConfig] {
	return thresholdSteps(
		dashboard.Threshold{Color: "red"},
		dashboard.Threshold{Value: cog.ToPtr(okAt), Color: "green"},
	)
}

// WarnCritThresholds colors green up to warnAt, yellow up to critAt,
// red beyond.
func WarnCritThresholds(warnAt, critAt float64) cog.Builder[dashboard.ThresholdsConfig] {
	return thresholdSteps(
		dashboard.Threshold{Color: "green"},
		dashboard.Threshold{Value: cog.ToPtr(warnAt), Color: "yellow"},
		dashboard.Threshold{Value: cog.ToPtr(critAt), Color: "red"},
	)
}

// GreenThresholds is the single-step config for panels whose value has
// no good or bad side.
func GreenThresholds() cog.Builder[dashboard.ThresholdsConfig] {
	return thresholdSteps(dashboard.Threshold{Color: "green"})
}

// ThresholdColors maps field color onto the threshold steps.
func ThresholdColors() cog.Builder[dashboard.FieldColor] {
	return dashboard.NewFieldColorBuilder().Mode(dashboard.FieldColorModeIdThresholds)
}

// PaletteColors cycles series through the classic palette.
func PaletteColors() cog.Builder[dashboard.FieldColor] {
	return dashboard.NewFieldColorBuilder().Mode(dashboard.FieldColorModeIdPaletteClassic)
}

// TableLegend shows series as a bottom table with the given calcs.
func TableLegend(calcs ...string) *common.VizLegendOptionsBuilder {
	return common.NewVizLegendOptionsBuilder().
		DisplayMode(common.LegendDisplayModeTable).
		Placement(common.LegendPlacementBottom).
		Calcs(calcs)
}

// SharedTooltip shows every series in the hover tooltip, highest first.
func SharedTooltip() *common.VizTooltipOptionsBuilder {
	return common.NewVizTooltipOptionsBuilder().
		Mode(common.TooltipDisplayModeMulti).
		Sort(common.SortOrderDescending)
}
