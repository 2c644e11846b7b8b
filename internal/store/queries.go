package store

// Postgres SQL constants organized by entity.
// All Postgres SQL lives here; PostgresStore methods reference these
// constants. The SQLite backend carries its own dialect inline.

// Seen-set queries.
const (
	queryInsertSeen = `
		INSERT INTO seen_listings (source, fingerprint, first_seen)
		VALUES (@source, @fingerprint, @first_seen)
		ON CONFLICT (source, fingerprint) DO NOTHING`

	querySeenExists = `
		SELECT EXISTS (
			SELECT 1 FROM seen_listings
			WHERE source = $1 AND fingerprint = $2
		)`

	querySeenCount = `SELECT COUNT(*) FROM seen_listings WHERE source = $1`

	queryDeleteSeenBySource = `DELETE FROM seen_listings WHERE source = $1`
	queryDeleteSeenAll      = `DELETE FROM seen_listings`
)

// Cycle-run queries.
const (
	queryInsertCycleRun = `
		INSERT INTO cycle_runs (id, started_at, status)
		VALUES (@id, @started_at, 'running')`

	queryFinishCycleRun = `
		UPDATE cycle_runs SET
			completed_at   = now(),
			status         = @status,
			error_text     = NULLIF(@error_text, ''),
			sources_ok     = @sources_ok,
			sources_failed = @sources_failed,
			listings       = @listings,
			new_listings   = @new_listings,
			notified       = @notified
		WHERE id = @id`

	queryListCycleRuns = `
		SELECT id, started_at, completed_at, status,
			COALESCE(error_text, ''), sources_ok, sources_failed,
			listings, new_listings, notified
		FROM cycle_runs
		ORDER BY started_at DESC
		LIMIT $1`
)

// Monitor-state queries.
const (
	queryMonitorCounts = `
		SELECT
			(SELECT COUNT(*) FROM seen_listings) AS seen_total,
			(SELECT COUNT(*) FROM cycle_runs)    AS cycles_recorded`

	queryLastCycleRun = `
		SELECT started_at, status
		FROM cycle_runs
		ORDER BY started_at DESC
		LIMIT 1`
)
