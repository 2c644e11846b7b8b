package rules

// AlertRules returns the CR alerting on the monitor's failure modes.
// Severity critical means new listings are going undetected right now;
// warning means degradation that self-heals or can wait for daylight.
func AlertRules() PrometheusRule {
	return newCR("wm-alerts", RuleGroup{
		Name: "wm-alerts",
		Rules: []Rule{
			alert("WmDown",
				`absent(up{job="watch-monitor"})`, "2m", "critical",
				"Watch monitor is down",
				"The watch-monitor job has been absent for more than 2 minutes."),
			alert("WmReadinessDown",
				`wm_readyz_up == 0`, "2m", "critical",
				"Watch monitor readiness check is failing",
				"The readiness probe has been reporting not-ready for more than 2 minutes. The seen-set store is likely unreachable."),
			alert("WmHighErrorRate",
				`wm:http_errors:rate5m / wm:http_requests:rate5m > 0.05`, "5m", "warning",
				"High HTTP error rate on watch monitor",
				"More than 5% of HTTP requests are returning 5xx errors over the last 5 minutes."),
			alert("WmNoRecentCycles",
				`increase(wm_cycles_total[1h]) == 0`, "10m", "critical",
				"No monitor cycles in the last hour",
				"No cycle has started for over an hour. The scheduler is stuck or the process is wedged."),
			alert("WmSourceFailing",
				`wm:source_failures:rate5m > 0`, "30m", "warning",
				"A dealer site has been failing for 30 minutes",
				"At least one source has failed every fetch (including retries) for the last 30 minutes. The site may have changed its markup or be blocking us."),
			alert("WmCycleOverlap",
				`increase(wm_cycle_skipped_total[30m]) > 3`, "0m", "warning",
				"Monitor cycles are overrunning the schedule",
				"More than 3 cycle ticks were skipped in 30 minutes because the previous cycle was still running. Increase the interval or investigate slow sources."),
			alert("WmStorageErrors",
				`increase(wm_storage_errors_total[5m]) > 0`, "1m", "critical",
				"Seen-set storage errors detected",
				"The seen-set store has been returning errors. Affected cycles abort without committing, so nothing is double-notified, but new listings go undetected until the store recovers."),
			alert("WmNotificationFailures",
				`increase(wm_notification_failures_total[5m]) > 0`, "1m", "warning",
				"Notification delivery failures detected",
				"One or more Discord webhook notifications have failed to send. The listings stay unrecorded and will be retried next cycle."),
		},
	})
}
