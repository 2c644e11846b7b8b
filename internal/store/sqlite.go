package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	domain "github.com/sfeuerstein/watch-monitor/pkg/types"
)

// SQLiteStore implements Store using modernc.org/sqlite (pure Go, no
// cgo). This is the default backend: a single-file database next to
// the binary, which matches a monitor that is the only writer.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens or creates the SQLite database at path and configures
// WAL mode.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// One connection serializes all access; SQLite allows a single
	// writer anyway and this avoids SQLITE_BUSY churn under WAL.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("executing %s: %w", pragma, err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS seen_listings (
	source      TEXT     NOT NULL,
	fingerprint TEXT     NOT NULL,
	first_seen  DATETIME NOT NULL,
	PRIMARY KEY (source, fingerprint)
);

CREATE INDEX IF NOT EXISTS idx_seen_listings_source ON seen_listings(source);

CREATE TABLE IF NOT EXISTS cycle_runs (
	id             TEXT     PRIMARY KEY,
	started_at     DATETIME NOT NULL,
	completed_at   DATETIME,
	status         TEXT     NOT NULL DEFAULT 'running',
	error_text     TEXT,
	sources_ok     INTEGER  NOT NULL DEFAULT 0,
	sources_failed INTEGER  NOT NULL DEFAULT 0,
	listings       INTEGER  NOT NULL DEFAULT 0,
	new_listings   INTEGER  NOT NULL DEFAULT 0,
	notified       INTEGER  NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_cycle_runs_started_at ON cycle_runs(started_at);
`

// Migrate creates the schema if it does not exist yet.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("applying sqlite schema: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping verifies the database file is reachable and not locked.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// SeenExists reports whether the (source, fingerprint) pair is recorded.
func (s *SQLiteStore) SeenExists(ctx context.Context, source, fingerprint string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM seen_listings WHERE source = ? AND fingerprint = ?`,
		source, fingerprint,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking seen record: %w", err)
	}
	return true, nil
}

// SeenCount returns the number of seen records for one source.
func (s *SQLiteStore) SeenCount(ctx context.Context, source string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM seen_listings WHERE source = ?`, source,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting seen records: %w", err)
	}
	return count, nil
}

// InsertSeenBatch inserts seen records in a single transaction,
// skipping pairs that already exist. Returns the number of rows
// actually inserted.
func (s *SQLiteStore) InsertSeenBatch(ctx context.Context, records []domain.SeenRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning seen batch: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	inserted := 0
	for _, r := range records {
		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO seen_listings (source, fingerprint, first_seen)
			 VALUES (?, ?, ?)`,
			r.SourceKey, r.Fingerprint, r.FirstSeenAt.UTC(),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting seen record: %w", err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("reading rows affected: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing seen batch: %w", err)
	}

	return inserted, nil
}

// ListSeen queries seen records with optional filters, returning
// results and total count.
func (s *SQLiteStore) ListSeen(
	ctx context.Context,
	opts *SeenQuery,
) ([]domain.SeenRecord, int, error) {
	if opts == nil {
		opts = &SeenQuery{}
	}

	where := ""
	var args []any
	if opts.Source != "" {
		where = ` WHERE source = ?`
		args = append(args, opts.Source)
	}

	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM seen_listings`+where, args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("counting seen records: %w", err)
	}

	query := `SELECT source, fingerprint, first_seen FROM seen_listings` + where +
		` ORDER BY first_seen DESC, fingerprint ASC LIMIT ? OFFSET ?`
	args = append(args, clampLimit(opts.Limit), max(opts.Offset, 0))

	rows, err := s.db.QueryContext(ctx, query, args...)
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
func (s *SQLiteStore) DeleteSeen(ctx context.Context, source string) (int, error) {
	query, args := `DELETE FROM seen_listings`, []any{}
	if source != "" {
		query, args = `DELETE FROM seen_listings WHERE source = ?`, []any{source}
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting seen records: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading rows affected: %w", err)
	}
	return int(n), nil
}

// InsertCycleRun records the start of a cycle and returns its ID.
func (s *SQLiteStore) InsertCycleRun(ctx context.Context, startedAt time.Time) (string, error) {
	id := uuid.New().String()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cycle_runs (id, started_at, status) VALUES (?, ?, 'running')`,
		id, startedAt.UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("inserting cycle run: %w", err)
	}

	return id, nil
}

// FinishCycleRun marks a cycle run as finished with its final counters.
func (s *SQLiteStore) FinishCycleRun(ctx context.Context, run *domain.CycleRun) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE cycle_runs SET
			completed_at   = ?,
			status         = ?,
			error_text     = NULLIF(?, ''),
			sources_ok     = ?,
			sources_failed = ?,
			listings       = ?,
			new_listings   = ?,
			notified       = ?
		WHERE id = ?`,
		time.Now().UTC(), run.Status, run.ErrorText,
		run.SourcesOK, run.SourcesFailed,
		run.Listings, run.NewListings, run.Notified,
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("finishing cycle run: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("cycle run %s: %w", run.ID, ErrNotFound)
	}
	return nil
}

// ListCycleRuns returns the most recent cycle runs, newest first.
func (s *SQLiteStore) ListCycleRuns(ctx context.Context, limit int) ([]domain.CycleRun, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, completed_at, status,
			COALESCE(error_text, ''), sources_ok, sources_failed,
			listings, new_listings, notified
		FROM cycle_runs
		ORDER BY started_at DESC
		LIMIT ?`,
		clampLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("querying cycle runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.CycleRun
	for rows.Next() {
		var (
			r         domain.CycleRun
			completed sql.NullTime
		)
		if err := rows.Scan(
			&r.ID, &r.StartedAt, &completed, &r.Status,
			&r.ErrorText, &r.SourcesOK, &r.SourcesFailed,
			&r.Listings, &r.NewListings, &r.Notified,
		); err != nil {
			return nil, fmt.Errorf("scanning cycle run: %w", err)
		}
		if completed.Valid {
			t := completed.Time
			r.CompletedAt = &t
		}
		runs = append(runs, r)
	}

	return runs, rows.Err()
}

// GetMonitorState returns aggregate counts for the ops API. The caller
// fills in fields the store does not own, such as configured sources.
func (s *SQLiteStore) GetMonitorState(ctx context.Context) (*domain.MonitorState, error) {
	state := &domain.MonitorState{}
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM seen_listings),
			(SELECT COUNT(*) FROM cycle_runs)`,
	).Scan(&state.SeenTotal, &state.CyclesRecorded)
	if err != nil {
		return nil, fmt.Errorf("querying monitor counts: %w", err)
	}

	var (
		lastAt     time.Time
		lastStatus string
	)
	err = s.db.QueryRowContext(ctx,
		`SELECT started_at, status FROM cycle_runs ORDER BY started_at DESC LIMIT 1`,
	).Scan(&lastAt, &lastStatus)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// No cycles recorded yet.
	case err != nil:
		return nil, fmt.Errorf("querying last cycle run: %w", err)
	default:
		state.LastCycleAt = &lastAt
		state.LastCycleStatus = lastStatus
	}

	return state, nil
}
