package client

import (
	"context"
	"fmt"
	"strconv"

	domain "github.com/sfeuerstein/watch-monitor/pkg/types"
)

// ListCycles returns recorded monitor cycles, newest first.
func (c *Client) ListCycles(ctx context.Context, limit int) ([]domain.CycleRun, error) {
	path := "/api/v1/cycles"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var runs []domain.CycleRun
	if err := c.get(ctx, path, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

// TriggerCycle runs a full monitor cycle and returns its reported status.
// The call blocks until the cycle completes. A cycle already in flight
// surfaces as an API error with HTTP 409.
func (c *Client) TriggerCycle(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.post(ctx, "/api/v1/cycles/trigger", nil, &resp); err != nil {
		return "", err
	}
	if resp.Status == "" {
		return "", fmt.Errorf("trigger response missing status")
	}
	return resp.Status, nil
}
