// Package lap implements the Lap repository using PostgreSQL.
// Laps arrive hundreds at a time per session, so the write path is a
// multi-row upsert keyed by (session_id, driver_id, number).
package lap

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pitwall/f1-backend/internal/adapter/postgres"
	"github.com/pitwall/f1-backend/internal/domain"
)

// Repo provides lap persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new lap repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// UpsertBatch inserts or updates laps in one statement and returns how many
// rows the statement touched. Re-ingesting the same laps updates in place;
// no duplicates are possible under the unique constraint.
func (r *Repo) UpsertBatch(ctx context.Context, laps []domain.Lap) (int, error) {
	if len(laps) == 0 {
		return 0, nil
	}

	q := postgres.QuerierFromCtx(ctx, r.db)

	query := postgres.Builder().
		Insert("laps").
		Columns("id", "session_id", "driver_id", "number", "time_ms", "position")
	for _, l := range laps {
		query = query.Values(uuid.New(), l.SessionID, l.DriverID, l.Number, l.TimeMS, l.Position)
	}
	query = query.Suffix(`ON CONFLICT (session_id, driver_id, number) DO UPDATE SET
		time_ms = COALESCE(EXCLUDED.time_ms, laps.time_ms),
		position = COALESCE(EXCLUDED.position, laps.position)`)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build lap batch upsert: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, postgres.MapError(err, "lap", "batch")
	}

	return int(tag.RowsAffected()), nil
}

// CountOrphans returns the number of lap rows whose session or driver
// reference is dangling. Defensive check; see result.CountOrphans.
func (r *Repo) CountOrphans(ctx context.Context) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	const sql = `
SELECT count(*)
FROM laps l
LEFT JOIN sessions se ON se.id = l.session_id
LEFT JOIN drivers d ON d.id = l.driver_id
WHERE se.id IS NULL OR d.id IS NULL`

	var n int
	if err := q.QueryRow(ctx, sql).Scan(&n); err != nil {
		return 0, fmt.Errorf("count orphan laps: %w", err)
	}

	return n, nil
}
