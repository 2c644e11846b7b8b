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
	domain "github.com/sfeuerstein/watch-monitor/pkg/types"
)

type mockSeenCounter struct {
	counts map[string]int64
	err    error
}

func (m *mockSeenCounter) SeenCount(_ context.Context, source string) (int64, error) {
	return m.counts[source], m.err
}

func testSources() []domain.Source {
	return []domain.Source{
		{Key: "worldoftime", Name: "World of Time", Currency: domain.CurrencyEUR, AccentColor: 0x2F4F4F},
		{Key: "tropicalwatch", Name: "Tropical Watch", Currency: domain.CurrencyUSD, AccentColor: 0xC2B280},
	}
}

func TestListSources_Success(t *testing.T) {
	t.Parallel()

	counter := &mockSeenCounter{counts: map[string]int64{
		"worldoftime":   120,
		"tropicalwatch": 0,
	}}
	h := handlers.NewSourcesHandler(testSources(), counter)

	_, api := humatest.New(t)
	handlers.RegisterSourceRoutes(api, h)

	resp := api.Get("/api/v1/sources")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"key":"worldoftime"`)
	assert.Contains(t, resp.Body.String(), `"seen_count":120`)
	assert.Contains(t, resp.Body.String(), `"currency":"USD"`)
}

func TestListSources_CountError(t *testing.T) {
	t.Parallel()

	h := handlers.NewSourcesHandler(testSources(), &mockSeenCounter{err: errors.New("db gone")})

	_, api := humatest.New(t)
	handlers.RegisterSourceRoutes(api, h)

	resp := api.Get("/api/v1/sources")
	require.Equal(t, http.StatusInternalServerError, resp.Code)
}

func TestListSources_Empty(t *testing.T) {
	t.Parallel()

	h := handlers.NewSourcesHandler(nil, &mockSeenCounter{})

	_, api := humatest.New(t)
	handlers.RegisterSourceRoutes(api, h)

	resp := api.Get("/api/v1/sources")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `[]`, resp.Body.String())
}
