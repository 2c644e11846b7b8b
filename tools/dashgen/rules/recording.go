package rules

// RecordingRules returns the CR with the pre-aggregated rates that
// dashboard panels and alert expressions query instead of re-deriving.
func RecordingRules() PrometheusRule {
	return newCR("wm-recording-rules", RuleGroup{
		Name: "wm-recording",
		Rules: []Rule{
			record("wm:http_requests:rate5m",
				`sum(rate(wm_http_requests_total[5m]))`),
			record("wm:http_errors:rate5m",
				`sum(rate(wm_http_requests_total{status=~"5.."}[5m]))`),
			record("wm:source_listings:rate5m",
				`sum by (source) (rate(wm_source_listings_total[5m]))`),
			record("wm:source_failures:rate5m",
				`sum by (source) (rate(wm_source_failures_total[5m]))`),
			record("wm:new_listings:rate5m",
				`sum by (source) (rate(wm_new_listings_total[5m]))`),
			record("wm:notification_failures:rate5m",
				`sum(rate(wm_notification_failures_total[5m]))`),
		},
	})
}
