// Package domain defines the core business types for the watch monitor.
package domain

import (
	"strings"
	"time"
)

// Currency identifies the currency a source lists prices in.
type Currency string

// Currency constants.
const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
)

// Condition represents normalized listing condition, ordered best to worst.
type Condition string

// Condition constants.
const (
	ConditionUnworn    Condition = "unworn"
	ConditionExcellent Condition = "excellent"
	ConditionVeryGood  Condition = "very_good"
	ConditionGood      Condition = "good"
	ConditionFair      Condition = "fair"
	ConditionUnknown   Condition = "unknown"
)

// conditionRanks orders conditions from best (0) to worst. Unknown ranks last.
var conditionRanks = map[Condition]int{
	ConditionUnworn:    0,
	ConditionExcellent: 1,
	ConditionVeryGood:  2,
	ConditionGood:      3,
	ConditionFair:      4,
	ConditionUnknown:   5,
}

// Rank returns the ordinal position of the condition, best first.
func (c Condition) Rank() int {
	if r, ok := conditionRanks[c]; ok {
		return r
	}
	return conditionRanks[ConditionUnknown]
}

var conditionLabels = map[Condition]string{
	ConditionUnworn:    "Unworn",
	ConditionExcellent: "Excellent",
	ConditionVeryGood:  "Very Good",
	ConditionGood:      "Good",
	ConditionFair:      "Fair",
	ConditionUnknown:   "Unknown",
}

// Label returns the display wording for the condition.
func (c Condition) Label() string {
	if l, ok := conditionLabels[c]; ok {
		return l
	}
	return conditionLabels[ConditionUnknown]
}

// TriState represents a fact that may be affirmed, denied, or unstated.
type TriState string

// TriState constants.
const (
	TriYes     TriState = "yes"
	TriNo      TriState = "no"
	TriUnknown TriState = "unknown"
)

// TriFromBool converts a definite answer into a TriState.
func TriFromBool(b bool) TriState {
	if b {
		return TriYes
	}
	return TriNo
}

// Source describes one configured listing source and its presentation
// styling. The key is the stable identifier persisted in the seen-set;
// renaming it orphans that source's records.
type Source struct {
	Key         string   `json:"key"          db:"source"`
	Name        string   `json:"name"         db:"name"`
	Currency    Currency `json:"currency"     db:"currency"`
	AccentColor int      `json:"accent_color" db:"accent_color"`
}

// RawListing is the field bag an adapter extracts from a source page,
// before normalization. All fields are source-shaped text; empty means
// the source did not expose the field.
type RawListing struct {
	SourceKey     string   `json:"source_key"`
	Brand         string   `json:"brand"`
	Model         string   `json:"model"`
	Reference     string   `json:"reference"`
	PriceText     string   `json:"price_text"`
	Currency      Currency `json:"currency"`
	YearText      string   `json:"year_text"`
	ConditionText string   `json:"condition_text"`
	// DetailText carries free text scanned for box/papers keywords
	// (scope-of-delivery cells, description fragments).
	DetailText string `json:"detail_text"`
	ImageURL   string `json:"image_url"`
	DetailURL  string `json:"detail_url"`
}

// Listing is the canonical, normalized form of a scraped listing.
type Listing struct {
	SourceKey string `json:"source_key"`
	Brand     string `json:"brand"`
	Model     string `json:"model"`
	Reference string `json:"reference,omitempty"`

	// Pricing. HashPrice is the identity-bearing amount in minor EUR
	// units; nil when the price was unparsable or unconvertible.
	// DisplayPrice keeps the source's own currency and formatting.
	HashPrice    *int64 `json:"hash_price,omitempty"`
	DisplayPrice string `json:"display_price"`

	// Attributes
	Year      *int      `json:"year,omitempty"`
	Condition Condition `json:"condition"`
	Box       TriState  `json:"box"`
	Papers    TriState  `json:"papers"`

	ImageURL  string `json:"image_url,omitempty"`
	DetailURL string `json:"detail_url"`
}

// DisplayTitle renders "Brand Model" with the reference appended when known.
func (l *Listing) DisplayTitle() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{l.Brand, l.Model, l.Reference} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	return strings.Join(parts, " ")
}

// SeenRecord marks one (source, fingerprint) pair as already notified.
// Records are insert-only; removal happens only through an explicit reset.
type SeenRecord struct {
	SourceKey   string    `json:"source"      db:"source"`
	Fingerprint string    `json:"fingerprint" db:"fingerprint"`
	FirstSeenAt time.Time `json:"first_seen"  db:"first_seen"`
}

// NotificationEvent pairs an unseen listing with its source styling for
// payload assembly. Built only for fingerprints absent from the seen-set
// at decision time.
type NotificationEvent struct {
	Listing     Listing   `json:"listing"`
	Source      Source    `json:"source"`
	Fingerprint string    `json:"fingerprint"`
	DetectedAt  time.Time `json:"detected_at"`
}

// Run status constants for CycleRun.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// CycleRun records a single execution of the monitor cycle.
type CycleRun struct {
	ID            string     `json:"id"                     db:"id"`
	StartedAt     time.Time  `json:"started_at"             db:"started_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	Status        string     `json:"status"                 db:"status"`
	ErrorText     string     `json:"error_text,omitempty"   db:"error_text"`
	SourcesOK     int        `json:"sources_ok"             db:"sources_ok"`
	SourcesFailed int        `json:"sources_failed"         db:"sources_failed"`
	Listings      int        `json:"listings"               db:"listings"`
	NewListings   int        `json:"new_listings"           db:"new_listings"`
	Notified      int        `json:"notified"               db:"notified"`
}

// MonitorState holds a snapshot of aggregate monitor counts for the ops API.
type MonitorState struct {
	SourcesConfigured int        `json:"sources_configured"`
	SeenTotal         int64      `json:"seen_total"`
	CyclesRecorded    int        `json:"cycles_recorded"`
	LastCycleAt       *time.Time `json:"last_cycle_at,omitempty"`
	LastCycleStatus   string     `json:"last_cycle_status,omitempty"`
}
