// Package notify builds and delivers new-listing notifications. Embed
// composition is pure; delivery backends implement Notifier.
package notify

import (
	"context"
	"fmt"

	domain "github.com/sfeuerstein/watch-monitor/pkg/types"
)

// Notifier delivers one notification per new listing.
type Notifier interface {
	// Notify delivers the event. A nil return confirms delivery; only
	// confirmed listings may be committed to the seen-set.
	Notify(ctx context.Context, event domain.NotificationEvent) error
}

// DeliveryError reports a failed notification delivery. The affected
// fingerprint stays unseen, so the listing is retried next cycle.
type DeliveryError struct {
	Backend string
	Status  int // zero when no response arrived
	Err     error
}

func (e *DeliveryError) Error() string {
	switch {
	case e.Err != nil && e.Status != 0:
		return fmt.Sprintf("%s delivery: HTTP %d: %v", e.Backend, e.Status, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s delivery: %v", e.Backend, e.Err)
	default:
		return fmt.Sprintf("%s delivery: HTTP %d", e.Backend, e.Status)
	}
}

func (e *DeliveryError) Unwrap() error { return e.Err }
