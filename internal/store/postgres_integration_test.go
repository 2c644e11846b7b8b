//go:build integration

package store_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/sfeuerstein/watch-monitor/internal/store"
	domain "github.com/sfeuerstein/watch-monitor/pkg/types"
)

func setupPostgres(t *testing.T) *store.PostgresStore {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("wm_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, pgContainer.Terminate(ctx))
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := store.NewPostgres(ctx, connStr, 0)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})

	require.NoError(t, s.Migrate(ctx))

	return s
}

func TestPostgresStore_Ping(t *testing.T) {
	s := setupPostgres(t)
	require.NoError(t, s.Ping(context.Background()))
}

func TestPostgresStore_MigrateIsIdempotent(t *testing.T) {
	s := setupPostgres(t)
	// setupPostgres already migrated once; replaying must be a no-op.
	require.NoError(t, s.Migrate(context.Background()))
}

func TestPostgresStore_SeenSet(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("insert batch is idempotent", func(t *testing.T) {
		records := []domain.SeenRecord{
			{SourceKey: "worldoftime", Fingerprint: strings.Repeat("a", 64), FirstSeenAt: now},
			{SourceKey: "worldoftime", Fingerprint: strings.Repeat("b", 64), FirstSeenAt: now},
			{SourceKey: "grimmeissen", Fingerprint: strings.Repeat("a", 64), FirstSeenAt: now},
		}

		inserted, err := s.InsertSeenBatch(ctx, records)
		require.NoError(t, err)
		assert.Equal(t, 3, inserted)

		inserted, err = s.InsertSeenBatch(ctx, records)
		require.NoError(t, err)
		assert.Zero(t, inserted)
	})

	t.Run("exists and count", func(t *testing.T) {
		exists, err := s.SeenExists(ctx, "worldoftime", strings.Repeat("a", 64))
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = s.SeenExists(ctx, "tropicalwatch", strings.Repeat("a", 64))
		require.NoError(t, err)
		assert.False(t, exists)

		count, err := s.SeenCount(ctx, "worldoftime")
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("list with filter and pagination", func(t *testing.T) {
		got, total, err := s.ListSeen(ctx, &store.SeenQuery{Source: "worldoftime", Limit: 1})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, got, 1)
	})

	t.Run("delete one source", func(t *testing.T) {
		deleted, err := s.DeleteSeen(ctx, "grimmeissen")
		require.NoError(t, err)
		assert.Equal(t, 1, deleted)

		count, err := s.SeenCount(ctx, "grimmeissen")
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("delete all sources", func(t *testing.T) {
		deleted, err := s.DeleteSeen(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, 2, deleted)
	})
}

func TestPostgresStore_CycleRuns(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	id, err := s.InsertCycleRun(ctx, time.Now().UTC())
	require.NoError(t, err)
	require.NotEmpty(t, id)

	err = s.FinishCycleRun(ctx, &domain.CycleRun{
		ID:            id,
		Status:        domain.RunStatusCompleted,
		SourcesOK:     6,
		SourcesFailed: 0,
		Listings:      80,
		NewListings:   2,
		Notified:      2,
	})
	require.NoError(t, err)

	runs, err := s.ListCycleRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, domain.RunStatusCompleted, runs[0].Status)
	require.NotNil(t, runs[0].CompletedAt)
	assert.Equal(t, 2, runs[0].NewListings)

	err = s.FinishCycleRun(ctx, &domain.CycleRun{ID: "missing", Status: domain.RunStatusFailed})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPostgresStore_GetMonitorState(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	state, err := s.GetMonitorState(ctx)
	require.NoError(t, err)
	assert.Zero(t, state.SeenTotal)
	assert.Nil(t, state.LastCycleAt)

	_, err = s.InsertSeenBatch(ctx, []domain.SeenRecord{
		{SourceKey: "watch_out", Fingerprint: strings.Repeat("c", 64), FirstSeenAt: time.Now().UTC()},
	})
	require.NoError(t, err)

	id, err := s.InsertCycleRun(ctx, time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, s.FinishCycleRun(ctx, &domain.CycleRun{
		ID:     id,
		Status: domain.RunStatusCompleted,
	}))

	state, err = s.GetMonitorState(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), state.SeenTotal)
	assert.Equal(t, 1, state.CyclesRecorded)
	require.NotNil(t, state.LastCycleAt)
	assert.Equal(t, domain.RunStatusCompleted, state.LastCycleStatus)
}
