package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/sfeuerstein/watch-monitor/pkg/types"
)

const defaultPoolSize = 5

// PostgresStore implements Store using pgxpool (connection-pooled
// PostgreSQL). Intended for deployments where the seen set must be
// shared or inspected outside the monitor host.
//
// TODO(test): PostgresStore methods require live Postgres, tested via integration tests.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a PostgresStore with connection pooling.
// A poolSize of zero or less falls back to the default.
func NewPostgres(ctx context.Context, connString string, poolSize int) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	if poolSize <= 0 {
		poolSize = defaultPoolSize
	}
	cfg.MaxConns = int32(poolSize)

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return applyMigrations(ctx, s.pool)
}

// SeenExists reports whether the (source, fingerprint) pair is recorded.
func (s *PostgresStore) SeenExists(ctx context.Context, source, fingerprint string) (bool, error) {
	var exists bool
	if err := s.pool.QueryRow(ctx, querySeenExists, source, fingerprint).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking seen record: %w", err)
	}
	return exists, nil
}

// SeenCount returns the number of seen records for one source.
func (s *PostgresStore) SeenCount(ctx context.Context, source string) (int64, error) {
	var count int64
	if err := s.pool.QueryRow(ctx, querySeenCount, source).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting seen records: %w", err)
	}
	return count, nil
}

// InsertSeenBatch inserts seen records in a single transaction,
// skipping pairs that already exist. Returns the number of rows
// actually inserted.
func (s *PostgresStore) InsertSeenBatch(ctx context.Context, records []domain.SeenRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning seen batch: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	inserted := 0
	for _, r := range records {
		args := pgx.NamedArgs{
			"source":      r.SourceKey,
			"fingerprint": r.Fingerprint,
			"first_seen":  r.FirstSeenAt,
		}

		tag, err := tx.Exec(ctx, queryInsertSeen, args)
		if err != nil {
			return 0, fmt.Errorf("inserting seen record: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing seen batch: %w", err)
	}

	return inserted, nil
}

// ListSeen queries seen records with optional filters, returning
// results and total count.
func (s *PostgresStore) ListSeen(
	ctx context.Context,
	opts *SeenQuery,
) ([]domain.SeenRecord, int, error) {
	if opts == nil {
		opts = &SeenQuery{}
	}
	dataSQL, countSQL, args := opts.ToSQL()

	var total int
	if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting seen records: %w", err)
	}

	rows, err := s.pool.Query(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying seen records: %w", err)
	}
	defer rows.Close()

	var records []domain.SeenRecord
	for rows.Next() {
		var r domain.SeenRecord
		if err := rows.Scan(&r.SourceKey, &r.Fingerprint, &r.FirstSeenAt); err != nil {
			return nil, 0, fmt.Errorf("scanning seen record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating seen records: %w", err)
	}

	return records, total, nil
}

// DeleteSeen removes seen records for one source, or for all sources
// when source is empty. Returns the number of rows removed.
func (s *PostgresStore) DeleteSeen(ctx context.Context, source string) (int, error) {
	query, args := queryDeleteSeenAll, []any{}
	if source != "" {
		query, args = queryDeleteSeenBySource, []any{source}
	}

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting seen records: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// InsertCycleRun records the start of a cycle and returns its ID.
func (s *PostgresStore) InsertCycleRun(ctx context.Context, startedAt time.Time) (string, error) {
	id := uuid.New().String()

	args := pgx.NamedArgs{
		"id":         id,
		"started_at": startedAt,
	}
	if _, err := s.pool.Exec(ctx, queryInsertCycleRun, args); err != nil {
		return "", fmt.Errorf("inserting cycle run: %w", err)
	}

	return id, nil
}

// FinishCycleRun marks a cycle run as finished with its final counters.
func (s *PostgresStore) FinishCycleRun(ctx context.Context, run *domain.CycleRun) error {
	args := pgx.NamedArgs{
		"id":             run.ID,
		"status":         run.Status,
		"error_text":     run.ErrorText,
		"sources_ok":     run.SourcesOK,
		"sources_failed": run.SourcesFailed,
		"listings":       run.Listings,
		"new_listings":   run.NewListings,
		"notified":       run.Notified,
	}

	tag, err := s.pool.Exec(ctx, queryFinishCycleRun, args)
	if err != nil {
		return fmt.Errorf("finishing cycle run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cycle run %s: %w", run.ID, ErrNotFound)
	}
	return nil
}

// ListCycleRuns returns the most recent cycle runs, newest first.
func (s *PostgresStore) ListCycleRuns(ctx context.Context, limit int) ([]domain.CycleRun, error) {
	rows, err := s.pool.Query(ctx, queryListCycleRuns, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("querying cycle runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.CycleRun
	for rows.Next() {
		var r domain.CycleRun
		if err := rows.Scan(
			&r.ID, &r.StartedAt, &r.CompletedAt, &r.Status,
			&r.ErrorText, &r.SourcesOK, &r.SourcesFailed,
			&r.Listings, &r.NewListings, &r.Notified,
		); err != nil {
			return nil, fmt.Errorf("scanning cycle run: %w", err)
		}
		runs = append(runs, r)
	}

	return runs, rows.Err()
}

// GetMonitorState returns aggregate counts for the ops API. The caller
// fills in fields the store does not own, such as configured sources.
func (s *PostgresStore) GetMonitorState(ctx context.Context) (*domain.MonitorState, error) {
	state := &domain.MonitorState{}
	if err := s.pool.QueryRow(ctx, queryMonitorCounts).Scan(
		&state.SeenTotal, &state.CyclesRecorded,
	); err != nil {
		return nil, fmt.Errorf("querying monitor counts: %w", err)
	}

	var (
		lastAt     time.Time
		lastStatus string
	)
	err := s.pool.QueryRow(ctx, queryLastCycleRun).Scan(&lastAt, &lastStatus)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		// No cycles recorded yet.
	case err != nil:
		return nil, fmt.Errorf("querying last cycle run: %w", err)
	default:
		state.LastCycleAt = &lastAt
		state.LastCycleStatus = lastStatus
	}

	return state, nil
}
