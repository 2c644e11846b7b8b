package main

import "errors"

// KnownMetrics is the set of metric names exported by watch-monitor
// plus recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"wm_http_request_duration_seconds": true,
	"wm_http_requests_total":           true,

	// Health metrics.
	"wm_healthz_up": true,
	"wm_readyz_up":  true,

	// Cycle metrics.
	"wm_cycles_total":           true,
	"wm_cycle_duration_seconds": true,
	"wm_cycle_skipped_total":    true,

	// Source metrics.
	"wm_source_listings_total":          true,
	"wm_source_failures_total":          true,
	"wm_source_retries_total":           true,
	"wm_source_scrape_duration_seconds": true,

	// Dedup metrics.
	"wm_new_listings_total":    true,
	"wm_bootstrap_seeds_total": true,
	"wm_seen_set_size":         true,
	"wm_storage_errors_total":  true,

	// Notification metrics.
	"wm_notifications_sent_total":    true,
	"wm_notification_failures_total": true,

	// Exchange-rate metrics.
	"wm_rate_lookups_total":   true,
	"wm_rate_fallbacks_total": true,

	// Recording rules.
	"wm:http_requests:rate5m":         true,
	"wm:http_errors:rate5m":           true,
	"wm:source_listings:rate5m":       true,
	"wm:source_failures:rate5m":       true,
	"wm:new_listings:rate5m":          true,
	"wm:notification_failures:rate5m": true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
