package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfeuerstein/watch-monitor/internal/api/handlers"
	"github.com/sfeuerstein/watch-monitor/internal/engine"
)

type mockCycleRunner struct {
	err   error
	calls int
}

func (m *mockCycleRunner) RunCycle(_ context.Context) error {
	m.calls++
	return m.err
}

func TestTrigger_Success(t *testing.T) {
	t.Parallel()

	runner := &mockCycleRunner{}
	h := handlers.NewTriggerHandler(runner)

	_, api := humatest.New(t)
	handlers.RegisterTriggerRoutes(api, h)

	resp := api.Post("/api/v1/cycles/trigger")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "cycle completed")
	assert.Equal(t, 1, runner.calls)
}

func TestTrigger_CycleInFlight(t *testing.T) {
	t.Parallel()

	h := handlers.NewTriggerHandler(&mockCycleRunner{err: engine.ErrCycleInFlight})

	_, api := humatest.New(t)
	handlers.RegisterTriggerRoutes(api, h)

	resp := api.Post("/api/v1/cycles/trigger")
	require.Equal(t, http.StatusConflict, resp.Code)
	assert.Contains(t, resp.Body.String(), "already running")
}

func TestTrigger_CycleFails(t *testing.T) {
	t.Parallel()

	h := handlers.NewTriggerHandler(&mockCycleRunner{err: errors.New("storage down")})

	_, api := humatest.New(t)
	handlers.RegisterTriggerRoutes(api, h)

	resp := api.Post("/api/v1/cycles/trigger")
	require.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Body.String(), "storage down")
}
