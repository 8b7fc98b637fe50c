// Package driver implements the Driver repository using PostgreSQL.
// Drivers are global entities keyed by their stable code (e.g. "VER") and
// shared across seasons; the team reference moves with the driver.
package driver

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pitwall/f1-backend/internal/adapter/postgres"
	"github.com/pitwall/f1-backend/internal/domain"
)

// Repo provides driver persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new driver repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Upsert inserts or updates a driver keyed by code and returns its id.
// Name tracks the latest source value (last write wins); nationality and
// team only update when the incoming value is non-null, so a session that
// lacks them never erases what an earlier session established.
func (r *Repo) Upsert(ctx context.Context, d domain.Driver) (uuid.UUID, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	query := postgres.Builder().
		Insert("drivers").
		Columns("id", "code", "name", "nationality", "team_id").
		Values(uuid.New(), d.Code, d.Name, d.Nationality, d.TeamID).
		Suffix(`ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name,
			nationality = COALESCE(EXCLUDED.nationality, drivers.nationality),
			team_id = COALESCE(EXCLUDED.team_id, drivers.team_id)
		RETURNING id`)

	sql, args, err := query.ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("build driver upsert: %w", err)
	}

	var id uuid.UUID
	if err := q.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return uuid.Nil, postgres.MapError(err, "driver", d.Code)
	}

	return id, nil
}
