// Package team implements the Team repository using PostgreSQL.
package team

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pitwall/f1-backend/internal/adapter/postgres"
	"github.com/pitwall/f1-backend/internal/domain"
)

// Repo provides team persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new team repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Upsert inserts or updates a team keyed by name and returns its id.
// Country only updates when the incoming value is non-null.
func (r *Repo) Upsert(ctx context.Context, t domain.Team) (uuid.UUID, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	query := postgres.Builder().
		Insert("teams").
		Columns("id", "name", "country").
		Values(uuid.New(), t.Name, t.Country).
		Suffix(`ON CONFLICT (name) DO UPDATE SET
			country = COALESCE(EXCLUDED.country, teams.country)
		RETURNING id`)

	sql, args, err := query.ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("build team upsert: %w", err)
	}

	var id uuid.UUID
	if err := q.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return uuid.Nil, postgres.MapError(err, "team", t.Name)
	}

	return id, nil
}
