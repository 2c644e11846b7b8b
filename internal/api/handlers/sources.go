package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/sfeuerstein/watch-monitor/pkg/types"
)

// SeenCounter reports the seen-set size for one source.
type SeenCounter interface {
	SeenCount(ctx context.Context, source string) (int64, error)
}

// SourcesHandler handles GET /api/v1/sources.
type SourcesHandler struct {
	sources []domain.Source
	store   SeenCounter
}

// NewSourcesHandler creates a SourcesHandler over the configured sources.
func NewSourcesHandler(sources []domain.Source, s SeenCounter) *SourcesHandler {
	return &SourcesHandler{sources: sources, store: s}
}

// SourceStatus pairs a source descriptor with its current seen-set size.
// A zero seen count means the source has not completed its observe-only
// bootstrap yet.
type SourceStatus struct {
	domain.Source
	SeenCount int64 `json:"seen_count"`
}

// ListSourcesOutput is the response for GET /api/v1/sources.
type ListSourcesOutput struct {
	Body []SourceStatus
}

// ListSources returns the configured sources and their seen-set sizes.
func (h *SourcesHandler) ListSources(
	ctx context.Context,
	_ *struct{},
) (*ListSourcesOutput, error) {
	out := make([]SourceStatus, 0, len(h.sources))
	for _, src := range h.sources {
		n, err := h.store.SeenCount(ctx, src.Key)
		if err != nil {
			return nil, huma.Error500InternalServerError("counting seen records failed: " + err.Error())
		}
		out = append(out, SourceStatus{Source: src, SeenCount: n})
	}
	return &ListSourcesOutput{Body: out}, nil
}

// RegisterSourceRoutes registers source endpoints with the Huma API.
func RegisterSourceRoutes(api huma.API, h *SourcesHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-sources",
		Method:      http.MethodGet,
		Path:        "/api/v1/sources",
		Summary:     "List monitored sources",
		Description: "Returns every configured source with its display styling and seen-set size.",
		Tags:        []string{"sources"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.ListSources)
}
