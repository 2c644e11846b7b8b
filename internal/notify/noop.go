package notify

import (
	"context"
	"log/slog"

	domain "github.com/sfeuerstein/watch-monitor/pkg/types"
)

// NoOp discards notifications with a log line. It stands in when no
// webhook is configured; delivery "succeeds", so observe-only bootstrap
// and dry runs still commit their fingerprints.
type NoOp struct {
	log *slog.Logger
}

// NewNoOp creates the discarding notifier. A nil logger falls back to
// slog.Default().
func NewNoOp(log *slog.Logger) *NoOp {
	if log == nil {
		log = slog.Default()
	}
	return &NoOp{log: log}
}

// Notify implements Notifier.
func (n *NoOp) Notify(_ context.Context, event domain.NotificationEvent) error {
	n.log.Debug("notification discarded, no webhook configured",
		"source", event.Source.Key,
		"listing", event.Listing.DisplayTitle(),
	)
	return nil
}

// compile-time interface check.
var _ Notifier = (*NoOp)(nil)
