package client

import (
	"context"

	domain "github.com/sfeuerstein/watch-monitor/pkg/types"
)

// SourceStatus is a configured source together with its seen-set size.
// A zero seen count means the source has not bootstrapped yet.
type SourceStatus struct {
	domain.Source
	SeenCount int64 `json:"seen_count"`
}

// GetState returns an aggregate snapshot of the monitor.
func (c *Client) GetState(ctx context.Context) (*domain.MonitorState, error) {
	var state domain.MonitorState
	if err := c.get(ctx, "/api/v1/state", &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// ListSources returns the configured sources with per-source seen counts.
func (c *Client) ListSources(ctx context.Context) ([]SourceStatus, error) {
	var sources []SourceStatus
	if err := c.get(ctx, "/api/v1/sources", &sources); err != nil {
		return nil, err
	}
	return sources, nil
}
