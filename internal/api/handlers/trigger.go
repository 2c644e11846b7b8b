package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/sfeuerstein/watch-monitor/internal/engine"
)

// CycleRunner runs one monitor cycle on demand.
type CycleRunner interface {
	RunCycle(ctx context.Context) error
}

// TriggerHandler handles manual cycle trigger requests.
type TriggerHandler struct {
	runner CycleRunner
}

// NewTriggerHandler creates a new TriggerHandler.
func NewTriggerHandler(r CycleRunner) *TriggerHandler {
	return &TriggerHandler{runner: r}
}

// TriggerOutput is the response body for the trigger endpoint.
type TriggerOutput struct {
	Body struct {
		Status string `json:"status" example:"cycle completed" doc:"Cycle status"`
	}
}

// Trigger runs a full monitor cycle and returns when it has finished.
func (h *TriggerHandler) Trigger(ctx context.Context, _ *struct{}) (*TriggerOutput, error) {
	if err := h.runner.RunCycle(ctx); err != nil {
		if errors.Is(err, engine.ErrCycleInFlight) {
			return nil, huma.Error409Conflict("a cycle is already running")
		}
		return nil, huma.Error500InternalServerError("cycle failed: " + err.Error())
	}

	resp := &TriggerOutput{}
	resp.Body.Status = "cycle completed"
	return resp, nil
}

// RegisterTriggerRoutes registers the trigger endpoint with the Huma API.
func RegisterTriggerRoutes(api huma.API, h *TriggerHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "trigger-cycle",
		Method:      http.MethodPost,
		Path:        "/api/v1/cycles/trigger",
		Summary:     "Trigger a monitor cycle",
		Description: "Runs one full cycle: scrape every source, notify unseen listings, " +
			"commit confirmed fingerprints.",
		Tags:   []string{"cycles"},
		Errors: []int{http.StatusConflict, http.StatusInternalServerError},
	}, h.Trigger)
}
