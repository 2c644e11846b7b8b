package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	domain "github.com/sfeuerstein/watch-monitor/pkg/types"
)

// Discord delivers notifications to a Discord webhook, one embed per
// event.
type Discord struct {
	webhookURL string
	client     *http.Client
}

// DiscordOption configures a Discord notifier.
type DiscordOption func(*Discord)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) DiscordOption {
	return func(d *Discord) {
		d.client = c
	}
}

// NewDiscord creates a webhook notifier.
func NewDiscord(webhookURL string, opts ...DiscordOption) *Discord {
	d := &Discord{
		webhookURL: webhookURL,
		client:     http.DefaultClient,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// webhookPayload is the webhook JSON body.
type webhookPayload struct {
	Embeds []Embed `json:"embeds"`
}

// Notify implements Notifier. Any non-2xx answer, including 429, comes
// back as a *DeliveryError.
func (d *Discord) Notify(ctx context.Context, event domain.NotificationEvent) error {
	payload := webhookPayload{Embeds: []Embed{ComposeEmbed(event)}}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("creating discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return &DeliveryError{Backend: "discord", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		delivErr := &DeliveryError{Backend: "discord", Status: resp.StatusCode}
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		if s := bytes.TrimSpace(snippet); len(s) > 0 {
			delivErr.Err = errors.New(string(s))
		}
		return delivErr
	}
	return nil
}

// compile-time interface check.
var _ Notifier = (*Discord)(nil)
