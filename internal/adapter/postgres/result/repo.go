// Package result implements the Result repository using PostgreSQL.
// One row per (session, driver); nullable classification fields follow the
// "provided values win, nulls never erase" rule.
package result

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pitwall/f1-backend/internal/adapter/postgres"
	"github.com/pitwall/f1-backend/internal/domain"
)

// Repo provides result persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new result repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Upsert inserts or updates a result keyed by (session_id, driver_id) and
// returns its id.
func (r *Repo) Upsert(ctx context.Context, res domain.Result) (uuid.UUID, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	query := postgres.Builder().
		Insert("results").
		Columns("id", "session_id", "driver_id", "team_id", "position", "grid", "status", "time_ms", "points").
		Values(uuid.New(), res.SessionID, res.DriverID, res.TeamID, res.Position, res.Grid, res.Status, res.TimeMS, res.Points).
		Suffix(`ON CONFLICT (session_id, driver_id) DO UPDATE SET
			team_id = EXCLUDED.team_id,
			position = COALESCE(EXCLUDED.position, results.position),
			grid = COALESCE(EXCLUDED.grid, results.grid),
			status = COALESCE(EXCLUDED.status, results.status),
			time_ms = COALESCE(EXCLUDED.time_ms, results.time_ms),
			points = COALESCE(EXCLUDED.points, results.points)
		RETURNING id`)

	sql, args, err := query.ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("build result upsert: %w", err)
	}

	var id uuid.UUID
	if err := q.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return uuid.Nil, postgres.MapError(err, "result", res.DriverID.String())
	}

	return id, nil
}

// CountBySession returns the number of result rows stored for a session.
func (r *Repo) CountBySession(ctx context.Context, sessionID uuid.UUID) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var n int
	err := q.QueryRow(ctx, `SELECT count(*) FROM results WHERE session_id = $1`, sessionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count results for session %s: %w", sessionID, err)
	}

	return n, nil
}

// CountOrphans returns the number of result rows whose session, driver or
// team reference is dangling. Foreign keys make this structurally impossible;
// the check guards against manual data edits.
func (r *Repo) CountOrphans(ctx context.Context) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	const sql = `
SELECT count(*)
FROM results res
LEFT JOIN sessions se ON se.id = res.session_id
LEFT JOIN drivers d ON d.id = res.driver_id
LEFT JOIN teams t ON t.id = res.team_id
WHERE se.id IS NULL OR d.id IS NULL OR t.id IS NULL`

	var n int
	if err := q.QueryRow(ctx, sql).Scan(&n); err != nil {
		return 0, fmt.Errorf("count orphan results: %w", err)
	}

	return n, nil
}
