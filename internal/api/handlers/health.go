// Package handlers implements HTTP handlers for the watch-monitor API.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sfeuerstein/watch-monitor/internal/store"
)

// readyzPingTimeout bounds the datastore probe so a hung backend turns
// into a fast 503 instead of a hanging readiness check.
const readyzPingTimeout = 2 * time.Second

// probeStatus is the body of both health endpoints.
type probeStatus struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	store store.Store
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(s store.Store) *HealthHandler {
	return &HealthHandler{store: s}
}

// Healthz answers 200 whenever the process is up.
func (*HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, probeStatus{Status: "ok"})
}

// Readyz answers 200 when the datastore responds within
// readyzPingTimeout and 503 with the failure reason otherwise.
func (h *HealthHandler) Readyz(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readyzPingTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, probeStatus{
			Status: "unavailable",
			Reason: err.Error(),
		})
	}
	return c.JSON(http.StatusOK, probeStatus{Status: "ready"})
}
