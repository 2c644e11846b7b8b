package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfeuerstein/watch-monitor/internal/api/handlers"
	"github.com/sfeuerstein/watch-monitor/internal/store"
	domain "github.com/sfeuerstein/watch-monitor/pkg/types"
)

// stubStore implements store.Store with canned responses. Handlers only
// touch a method or two each; the rest return zero values.
type stubStore struct {
	pingErr error
}

var _ store.Store = (*stubStore)(nil)

func (s *stubStore) SeenExists(context.Context, string, string) (bool, error) { return false, nil }
func (s *stubStore) SeenCount(context.Context, string) (int64, error)         { return 0, nil }
func (s *stubStore) InsertSeenBatch(context.Context, []domain.SeenRecord) (int, error) {
	return 0, nil
}
func (s *stubStore) ListSeen(context.Context, *store.SeenQuery) ([]domain.SeenRecord, int, error) {
	return nil, 0, nil
}
func (s *stubStore) DeleteSeen(context.Context, string) (int, error) { return 0, nil }
func (s *stubStore) InsertCycleRun(context.Context, time.Time) (string, error) {
	return "", nil
}
func (s *stubStore) FinishCycleRun(context.Context, *domain.CycleRun) error { return nil }
func (s *stubStore) ListCycleRuns(context.Context, int) ([]domain.CycleRun, error) {
	return nil, nil
}
func (s *stubStore) GetMonitorState(context.Context) (*domain.MonitorState, error) {
	return &domain.MonitorState{}, nil
}
func (s *stubStore) Migrate(context.Context) error { return nil }
func (s *stubStore) Ping(context.Context) error    { return s.pingErr }
func (s *stubStore) Close() error                  { return nil }

func TestHealthz(t *testing.T) {
	t.Parallel()

	h := handlers.NewHealthHandler(&stubStore{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Healthz(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReadyz(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		pingErr    error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "returns 200 when store ping succeeds",
			pingErr:    nil,
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"ready"}`,
		},
		{
			name:       "returns 503 with reason when store ping fails",
			pingErr:    errors.New("connection refused"),
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"status":"unavailable","reason":"connection refused"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := handlers.NewHealthHandler(&stubStore{pingErr: tt.pingErr})

			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/readyz", http.NoBody)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := h.Readyz(c)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
