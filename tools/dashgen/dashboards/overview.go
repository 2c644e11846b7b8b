// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/sfeuerstein/watch-monitor/tools/dashgen/panels"
)

// BuildOverview constructs the Watch Monitor Overview dashboard with all
// metric rows.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("Watch Monitor Overview").
		Uid("wm-overview").
		Tags([]string{"wm", "watch-monitor"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	// Row 1: Overview.
	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.UptimeStat()).
		WithPanel(panels.SeenTotalStat()))

	// Row 2: HTTP.
	b.WithRow(dashboard.NewRowBuilder("HTTP").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()))

	// Row 3: Cycles.
	b.WithRow(dashboard.NewRowBuilder("Cycles").
		WithPanel(panels.CycleRate()).
		WithPanel(panels.CycleDuration()).
		WithPanel(panels.CycleSkips()))

	// Row 4: Sources.
	b.WithRow(dashboard.NewRowBuilder("Sources").
		WithPanel(panels.ListingsRate()).
		WithPanel(panels.SourceFailures()).
		WithPanel(panels.ScrapeDuration()))

	// Row 5: New Listings.
	b.WithRow(dashboard.NewRowBuilder("New Listings").
		WithPanel(panels.NewListingsRate()).
		WithPanel(panels.SeenBySource()).
		WithPanel(panels.StorageErrors()))

	// Row 6: Notifications.
	b.WithRow(dashboard.NewRowBuilder("Notifications").
		WithPanel(panels.NotificationsRate()).
		WithPanel(panels.NotificationFailures()))

	// Row 7: Exchange Rates.
	b.WithRow(dashboard.NewRowBuilder("Exchange Rates").
		WithPanel(panels.RateLookups()).
		WithPanel(panels.RateFallbacks()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
