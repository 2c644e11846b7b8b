package store

import "fmt"

const (
	defaultLimit = 50
	maxLimit     = 500
)

const baseSeenSelect = `SELECT source, fingerprint, first_seen
FROM seen_listings`

const countSeenSelect = "SELECT COUNT(*) FROM seen_listings"

// Rows come back newest first; the fingerprint tie-break keeps paging
// deterministic for records inserted in the same batch.
const seenOrderBy = "first_seen DESC, fingerprint ASC"

// ToSQL builds the WHERE clause, ORDER BY, LIMIT, and OFFSET for a
// seen-set query in Postgres placeholder syntax. It returns two SQL
// strings (one for the data query, one for the count query) and the
// positional parameters shared by both.
func (q *SeenQuery) ToSQL() (dataSQL, countSQL string, args []any) {
	var whereClause string
	if q.Source != "" {
		whereClause = " WHERE source = $1"
		args = append(args, q.Source)
	}

	limit := clampLimit(q.Limit)
	offset := max(q.Offset, 0)

	dataSQL = fmt.Sprintf(
		"%s%s ORDER BY %s LIMIT %d OFFSET %d",
		baseSeenSelect, whereClause, seenOrderBy, limit, offset,
	)

	countSQL = countSeenSelect + whereClause

	return dataSQL, countSQL, args
}

// clampLimit applies the default and the upper bound shared by both
// storage backends.
func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	return min(limit, maxLimit)
}
