package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/sfeuerstein/watch-monitor/internal/store"
	domain "github.com/sfeuerstein/watch-monitor/pkg/types"
)

// SeenProvider defines the store methods required by the seen handler.
type SeenProvider interface {
	ListSeen(ctx context.Context, opts *store.SeenQuery) ([]domain.SeenRecord, int, error)
}

// SeenHandler handles seen-set query endpoints.
type SeenHandler struct {
	store SeenProvider
}

// NewSeenHandler creates a new SeenHandler.
func NewSeenHandler(s SeenProvider) *SeenHandler {
	return &SeenHandler{store: s}
}

const defaultSeenLimit = 50

// ListSeenInput is the input for listing seen records with optional filters.
type ListSeenInput struct {
	Source string `query:"source" doc:"Filter by source key"`
	Limit  int    `query:"limit"  doc:"Number of results (default 50)" minimum:"1" maximum:"1000"`
	Offset int    `query:"offset" doc:"Pagination offset"              minimum:"0"`
}

// ListSeenOutput is the response for listing seen records.
type ListSeenOutput struct {
	Body struct {
		Seen   []domain.SeenRecord `json:"seen"`
		Total  int                 `json:"total"`
		Limit  int                 `json:"limit"`
		Offset int                 `json:"offset"`
	}
}

// ListSeen returns seen records, newest first, with optional source filter
// and pagination.
func (h *SeenHandler) ListSeen(
	ctx context.Context,
	input *ListSeenInput,
) (*ListSeenOutput, error) {
	limit := input.Limit
	if limit == 0 {
		limit = defaultSeenLimit
	}

	q := &store.SeenQuery{
		Source: input.Source,
		Limit:  limit,
		Offset: input.Offset,
	}

	records, total, err := h.store.ListSeen(ctx, q)
	if err != nil {
		return nil, huma.Error500InternalServerError("seen query failed: " + err.Error())
	}

	if records == nil {
		records = []domain.SeenRecord{}
	}

	resp := &ListSeenOutput{}
	resp.Body.Seen = records
	resp.Body.Total = total
	resp.Body.Limit = limit
	resp.Body.Offset = input.Offset

	return resp, nil
}

// RegisterSeenRoutes registers seen-set endpoints with the Huma API.
func RegisterSeenRoutes(api huma.API, h *SeenHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-seen",
		Method:      http.MethodGet,
		Path:        "/api/v1/seen",
		Summary:     "List seen records",
		Description: "Returns fingerprints already notified or bootstrapped, newest first.",
		Tags:        []string{"seen"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.ListSeen)
}
