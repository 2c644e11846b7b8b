package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// NotificationsRate graphs notifications delivered per minute, per
// source.
func NotificationsRate() *timeseries.PanelBuilder {
	return graphPanel("Notifications / min", "Rate of Discord notifications delivered per minute, per source", SpanHalf).
		WithTarget(PromQuery(
			`sum by (source) (rate(wm_notifications_sent_total{job="watch-monitor"}[5m])) * 60`,
			"{{source}}", "A",
		)).
		Legend(TableLegend("mean", "max")).
		Tooltip(SharedTooltip())
}

// NotificationFailures graphs notification send failures per minute.
func NotificationFailures() *timeseries.PanelBuilder {
	return graphPanel("Send Failures / min", "Rate of notification send failures per minute", SpanHalf).
		WithTarget(PromQuery(`wm:notification_failures:rate5m * 60`, "failures/min", "A")).
		Thresholds(WarnCritThresholds(0.1, 1)).
		ColorScheme(ThresholdColors())
}
