package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/sfeuerstein/watch-monitor/pkg/types"
)

// CyclesProvider defines the store methods required by the cycles handler.
type CyclesProvider interface {
	ListCycleRuns(ctx context.Context, limit int) ([]domain.CycleRun, error)
}

// CyclesHandler handles cycle history requests.
type CyclesHandler struct {
	store CyclesProvider
}

// NewCyclesHandler creates a new CyclesHandler.
func NewCyclesHandler(s CyclesProvider) *CyclesHandler {
	return &CyclesHandler{store: s}
}

const defaultCycleHistoryLimit = 20

// ListCyclesInput is the input for listing cycle runs.
type ListCyclesInput struct {
	Limit int `query:"limit" doc:"Number of runs (default 20)" minimum:"1" maximum:"200"`
}

// ListCyclesOutput is the response body for listing cycle runs.
type ListCyclesOutput struct {
	Body []domain.CycleRun
}

// ListCycles returns recorded monitor cycles, newest first.
func (h *CyclesHandler) ListCycles(
	ctx context.Context,
	input *ListCyclesInput,
) (*ListCyclesOutput, error) {
	limit := input.Limit
	if limit == 0 {
		limit = defaultCycleHistoryLimit
	}

	runs, err := h.store.ListCycleRuns(ctx, limit)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing cycle runs failed: " + err.Error())
	}

	if runs == nil {
		runs = []domain.CycleRun{}
	}

	return &ListCyclesOutput{Body: runs}, nil
}

// RegisterCycleRoutes registers cycle history endpoints with the Huma API.
func RegisterCycleRoutes(api huma.API, h *CyclesHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-cycles",
		Method:      http.MethodGet,
		Path:        "/api/v1/cycles",
		Summary:     "List monitor cycles",
		Description: "Returns recorded monitor cycle runs with their counts, newest first.",
		Tags:        []string{"cycles"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.ListCycles)
}
