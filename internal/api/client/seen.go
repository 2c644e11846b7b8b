package client

import (
	"context"
	"net/url"
	"strconv"

	domain "github.com/sfeuerstein/watch-monitor/pkg/types"
)

// SeenResponse wraps a paginated seen-set response.
type SeenResponse struct {
	Seen   []domain.SeenRecord `json:"seen"`
	Total  int                 `json:"total"`
	Limit  int                 `json:"limit"`
	Offset int                 `json:"offset"`
}

// ListSeenParams defines query parameters for seen-set queries.
type ListSeenParams struct {
	Source string
	Limit  int
	Offset int
}

// ListSeen returns seen records matching the given parameters, newest first.
func (c *Client) ListSeen(
	ctx context.Context,
	params *ListSeenParams,
) (*SeenResponse, error) {
	q := url.Values{}
	if params.Source != "" {
		q.Set("source", params.Source)
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Offset > 0 {
		q.Set("offset", strconv.Itoa(params.Offset))
	}

	path := "/api/v1/seen"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp SeenResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
