package notify

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	domain "github.com/sfeuerstein/watch-monitor/pkg/types"
)

const (
	// zeroWidth fills the separator field that stops Discord from packing
	// the head fields and the inline detail group into one row.
	zeroWidth = "​"

	chrono24Search = "https://www.chrono24.de/search/index.htm"

	maxTitleLen = 250
)

// Embed mirrors the subset of Discord's embed object the monitor sends.
type Embed struct {
	Title     string       `json:"title"`
	URL       string       `json:"url,omitempty"`
	Color     int          `json:"color"`
	Fields    []EmbedField `json:"fields,omitempty"`
	Thumbnail *EmbedMedia  `json:"thumbnail,omitempty"`
	Footer    *EmbedFooter `json:"footer,omitempty"`
	Timestamp string       `json:"timestamp,omitempty"`
}

// EmbedField is one name/value pair of an embed.
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// EmbedMedia points at an embed image.
type EmbedMedia struct {
	URL string `json:"url"`
}

// EmbedFooter is the embed footer line.
type EmbedFooter struct {
	Text string `json:"text"`
}

// ComposeEmbed renders one new-listing event as a Discord embed: price,
// reference and the comparison-search link first, then a separator, then
// the inline detail group. Unknown attributes are omitted, never rendered
// as placeholders.
func ComposeEmbed(event domain.NotificationEvent) Embed {
	l := &event.Listing

	title := l.DisplayTitle()
	if title == "" {
		title = "Unknown Watch"
	}
	if len(title) > maxTitleLen {
		title = title[:maxTitleLen] + "..."
	}

	fields := make([]EmbedField, 0, 8)
	if l.DisplayPrice != "" {
		fields = append(fields, EmbedField{Name: "Price", Value: l.DisplayPrice})
	}
	if l.Reference != "" {
		fields = append(fields, EmbedField{Name: "Reference", Value: l.Reference})
	}
	fields = append(fields, EmbedField{
		Name:  "Chrono24",
		Value: "[Search similar](" + chrono24Link(l) + ")",
	})

	if details := detailFields(l); len(details) > 0 {
		fields = append(fields, EmbedField{Name: zeroWidth, Value: zeroWidth})
		fields = append(fields, details...)
	}

	embed := Embed{
		Title:  title,
		URL:    l.DetailURL,
		Color:  event.Source.AccentColor,
		Fields: fields,
		Footer: &EmbedFooter{Text: event.Source.Name + " • New listing"},
	}
	if !event.DetectedAt.IsZero() {
		embed.Timestamp = event.DetectedAt.UTC().Format(time.RFC3339)
	}
	if l.ImageURL != "" {
		embed.Thumbnail = &EmbedMedia{URL: l.ImageURL}
	}
	return embed
}

// detailFields renders the inline group: year, condition, box, papers.
func detailFields(l *domain.Listing) []EmbedField {
	fields := make([]EmbedField, 0, 4)
	if l.Year != nil {
		fields = append(fields, EmbedField{
			Name: "Year", Value: strconv.Itoa(*l.Year), Inline: true,
		})
	}
	if l.Condition != "" && l.Condition != domain.ConditionUnknown {
		fields = append(fields, EmbedField{
			Name: "Condition", Value: l.Condition.Label(), Inline: true,
		})
	}
	if v := triLabel(l.Box); v != "" {
		fields = append(fields, EmbedField{Name: "Box", Value: v, Inline: true})
	}
	if v := triLabel(l.Papers); v != "" {
		fields = append(fields, EmbedField{Name: "Papers", Value: v, Inline: true})
	}
	return fields
}

func triLabel(t domain.TriState) string {
	switch t {
	case domain.TriYes:
		return "Yes"
	case domain.TriNo:
		return "No"
	default:
		return ""
	}
}

// chrono24Link builds the comparison-search URL from brand, model and
// reference. A model that merely repeats the brand is dropped from the
// query.
func chrono24Link(l *domain.Listing) string {
	parts := make([]string, 0, 3)
	if l.Brand != "" {
		parts = append(parts, l.Brand)
	}
	if l.Model != "" && !strings.EqualFold(l.Model, l.Brand) {
		parts = append(parts, l.Model)
	}
	if l.Reference != "" {
		parts = append(parts, l.Reference)
	}

	q := url.Values{}
	q.Set("dosearch", "true")
	q.Set("query", strings.Join(parts, " "))
	q.Set("sortorder", "1")
	return chrono24Search + "?" + q.Encode()
}
