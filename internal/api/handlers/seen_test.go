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
	"github.com/sfeuerstein/watch-monitor/internal/store"
	domain "github.com/sfeuerstein/watch-monitor/pkg/types"
)

type mockSeenProvider struct {
	records []domain.SeenRecord
	total   int
	err     error

	gotQuery *store.SeenQuery
}

func (m *mockSeenProvider) ListSeen(
	_ context.Context,
	opts *store.SeenQuery,
) ([]domain.SeenRecord, int, error) {
	m.gotQuery = opts
	return m.records, m.total, m.err
}

func TestListSeen_Success(t *testing.T) {
	t.Parallel()

	provider := &mockSeenProvider{
		records: []domain.SeenRecord{
			{
				SourceKey:   "worldoftime",
				Fingerprint: "0c7d6f1a",
				FirstSeenAt: time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
			},
		},
		total: 1,
	}
	h := handlers.NewSeenHandler(provider)

	_, api := humatest.New(t)
	handlers.RegisterSeenRoutes(api, h)

	resp := api.Get("/api/v1/seen?source=worldoftime&limit=10&offset=5")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"fingerprint":"0c7d6f1a"`)
	assert.Contains(t, resp.Body.String(), `"total":1`)
	assert.Contains(t, resp.Body.String(), `"limit":10`)

	require.NotNil(t, provider.gotQuery)
	assert.Equal(t, "worldoftime", provider.gotQuery.Source)
	assert.Equal(t, 10, provider.gotQuery.Limit)
	assert.Equal(t, 5, provider.gotQuery.Offset)
}

func TestListSeen_DefaultLimit(t *testing.T) {
	t.Parallel()

	provider := &mockSeenProvider{}
	h := handlers.NewSeenHandler(provider)

	_, api := humatest.New(t)
	handlers.RegisterSeenRoutes(api, h)

	resp := api.Get("/api/v1/seen")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"limit":50`)
	assert.Contains(t, resp.Body.String(), `"seen":[]`)

	require.NotNil(t, provider.gotQuery)
	assert.Equal(t, 50, provider.gotQuery.Limit)
}

func TestListSeen_Error(t *testing.T) {
	t.Parallel()

	h := handlers.NewSeenHandler(&mockSeenProvider{err: errors.New("db error")})

	_, api := humatest.New(t)
	handlers.RegisterSeenRoutes(api, h)

	resp := api.Get("/api/v1/seen")
	require.Equal(t, http.StatusInternalServerError, resp.Code)
}
