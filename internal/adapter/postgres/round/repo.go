// Package round implements the Round repository using PostgreSQL.
// Natural key: (season_id, number).
package round

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/pitwall/f1-backend/internal/adapter/postgres"
	"github.com/pitwall/f1-backend/internal/domain"
)

// Repo provides round persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new round repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Upsert inserts or updates a round keyed by (season_id, number) and returns
// its id. Name always tracks the latest schedule; the nullable attributes
// only update when the incoming value is non-null, so a sparse re-ingest
// never erases data.
func (r *Repo) Upsert(ctx context.Context, rd domain.Round) (uuid.UUID, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	query := postgres.Builder().
		Insert("rounds").
		Columns("id", "season_id", "number", "name", "country", "location", "circuit_id", "date").
		Values(uuid.New(), rd.SeasonID, rd.Number, rd.Name, rd.Country, rd.Location, rd.CircuitID, rd.Date).
		Suffix(`ON CONFLICT (season_id, number) DO UPDATE SET
			name = EXCLUDED.name,
			country = COALESCE(EXCLUDED.country, rounds.country),
			location = COALESCE(EXCLUDED.location, rounds.location),
			circuit_id = COALESCE(EXCLUDED.circuit_id, rounds.circuit_id),
			date = COALESCE(EXCLUDED.date, rounds.date)
		RETURNING id`)

	sql, args, err := query.ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("build round upsert: %w", err)
	}

	var id uuid.UUID
	if err := q.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return uuid.Nil, postgres.MapError(err, "round", fmt.Sprintf("%d", rd.Number))
	}

	return id, nil
}

// ListBySeason returns the season's rounds in ascending round-number order.
func (r *Repo) ListBySeason(ctx context.Context, year int) ([]domain.Round, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	const sql = `
SELECT r.id, r.season_id, r.number, r.name, r.country, r.location, r.circuit_id, r.date
FROM rounds r
JOIN seasons s ON s.id = r.season_id
WHERE s.year = $1
ORDER BY r.number`

	rounds := []domain.Round{}
	if err := pgxscan.Select(ctx, q, &rounds, sql, year); err != nil {
		return nil, fmt.Errorf("list rounds for %d: %w", year, err)
	}

	return rounds, nil
}

// ListWithoutSessions returns the season's rounds that have no session rows,
// ordered by round number. Used by the verifier; a cancelled or future round
// legitimately shows up here.
func (r *Repo) ListWithoutSessions(ctx context.Context, year int) ([]domain.Round, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	const sql = `
SELECT r.id, r.season_id, r.number, r.name, r.country, r.location, r.circuit_id, r.date
FROM rounds r
JOIN seasons s ON s.id = r.season_id
LEFT JOIN sessions se ON se.round_id = r.id
WHERE s.year = $1 AND se.id IS NULL
ORDER BY r.number`

	rounds := []domain.Round{}
	if err := pgxscan.Select(ctx, q, &rounds, sql, year); err != nil {
		return nil, fmt.Errorf("list rounds without sessions for %d: %w", year, err)
	}

	return rounds, nil
}
