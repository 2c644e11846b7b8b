// Package store defines the datastore abstraction for watch-monitor.
// The engine and the ops API depend on the Store interface, never on a
// concrete backend, so cycle logic is testable without a database and
// the SQLite and Postgres implementations stay interchangeable.
package store

import (
	"context"
	"errors"
	"time"

	domain "github.com/sfeuerstein/watch-monitor/pkg/types"
)

// ErrNotFound is returned when an update targets a row that does not exist.
var ErrNotFound = errors.New("not found")

// SeenQuery defines optional filters for seen-set queries.
type SeenQuery struct {
	Source string // filter to one source key; empty means all sources
	Limit  int    // default 50
	Offset int
}

// Store defines all data access operations for watch-monitor.
type Store interface {
	// Seen set. The (source, fingerprint) pair is the unit of dedup;
	// records are insert-only and survive restarts.
	SeenExists(ctx context.Context, source, fingerprint string) (bool, error)
	// SeenCount returns the number of seen records for one source.
	// Zero means the source has never completed a bootstrap.
	SeenCount(ctx context.Context, source string) (int64, error)
	// InsertSeenBatch records fingerprints as seen in one transaction.
	// Already-present pairs are skipped, not errors; the return value is
	// the number of rows actually inserted.
	InsertSeenBatch(ctx context.Context, records []domain.SeenRecord) (int, error)
	ListSeen(ctx context.Context, opts *SeenQuery) ([]domain.SeenRecord, int, error)
	// DeleteSeen removes seen records for one source, or for every
	// source when source is empty. The next cycle re-bootstraps.
	DeleteSeen(ctx context.Context, source string) (int, error)

	// Cycle runs
	InsertCycleRun(ctx context.Context, startedAt time.Time) (id string, err error)
	FinishCycleRun(ctx context.Context, run *domain.CycleRun) error
	ListCycleRuns(ctx context.Context, limit int) ([]domain.CycleRun, error)

	// State
	GetMonitorState(ctx context.Context) (*domain.MonitorState, error)

	// Migrations
	Migrate(ctx context.Context) error

	// Health
	Ping(ctx context.Context) error

	Close() error
}
