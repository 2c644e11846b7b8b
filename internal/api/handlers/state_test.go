package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfeuerstein/watch-monitor/internal/api/handlers"
	domain "github.com/sfeuerstein/watch-monitor/pkg/types"
)

type mockStateProvider struct {
	state *domain.MonitorState
	err   error
}

func (m *mockStateProvider) GetMonitorState(_ context.Context) (*domain.MonitorState, error) {
	return m.state, m.err
}

func TestGetState_Success(t *testing.T) {
	t.Parallel()

	last := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	state := &domain.MonitorState{
		SourcesConfigured: 6,
		SeenTotal:         412,
		CyclesRecorded:    97,
		LastCycleAt:       &last,
		LastCycleStatus:   domain.RunStatusCompleted,
	}

	h := handlers.NewStateHandler(&mockStateProvider{state: state})

	_, api := humatest.New(t)
	handlers.RegisterStateRoutes(api, h)

	resp := api.Get("/api/v1/state")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"sources_configured":6`)
	assert.Contains(t, resp.Body.String(), `"seen_total":412`)
	assert.Contains(t, resp.Body.String(), `"last_cycle_status":"completed"`)
}

func TestGetState_Error(t *testing.T) {
	t.Parallel()

	h := handlers.NewStateHandler(&mockStateProvider{err: errors.New("db error")})

	_, api := humatest.New(t)
	handlers.RegisterStateRoutes(api, h)

	resp := api.Get("/api/v1/state")
	require.Equal(t, http.StatusInternalServerError, resp.Code)
}
