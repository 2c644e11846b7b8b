package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/sfeuerstein/watch-monitor/pkg/types"
)

// StateProvider queries aggregate monitor state.
type StateProvider interface {
	GetMonitorState(ctx context.Context) (*domain.MonitorState, error)
}

// StateHandler handles GET /api/v1/state.
type StateHandler struct {
	store StateProvider
}

// NewStateHandler creates a StateHandler.
func NewStateHandler(s StateProvider) *StateHandler {
	return &StateHandler{store: s}
}

// StateOutput is the response for GET /api/v1/state.
type StateOutput struct {
	Body *domain.MonitorState
}

// GetState returns aggregate monitor counts.
func (h *StateHandler) GetState(
	ctx context.Context,
	_ *struct{},
) (*StateOutput, error) {
	state, err := h.store.GetMonitorState(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to get monitor state")
	}
	return &StateOutput{Body: state}, nil
}

// RegisterStateRoutes registers the monitor state route on the Huma API.
func RegisterStateRoutes(api huma.API, h *StateHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-state",
		Method:      http.MethodGet,
		Path:        "/api/v1/state",
		Summary:     "Get monitor state",
		Description: "Returns aggregate monitor counts: configured sources, seen records, recorded cycles.",
		Tags:        []string{"monitor"},
	}, h.GetState)
}
