// Package session implements the Session repository using PostgreSQL.
// Natural key: (round_id, type).
package session

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/pitwall/f1-backend/internal/adapter/postgres"
	"github.com/pitwall/f1-backend/internal/domain"
)

// Repo provides session persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new session repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Upsert inserts or updates a session keyed by (round_id, type) and returns
// its id.
func (r *Repo) Upsert(ctx context.Context, s domain.Session) (uuid.UUID, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	query := postgres.Builder().
		Insert("sessions").
		Columns("id", "round_id", "type", "starts_at").
		Values(uuid.New(), s.RoundID, string(s.Type), s.StartsAt).
		Suffix(`ON CONFLICT (round_id, type) DO UPDATE SET
			starts_at = COALESCE(EXCLUDED.starts_at, sessions.starts_at)
		RETURNING id`)

	sql, args, err := query.ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("build session upsert: %w", err)
	}

	var id uuid.UUID
	if err := q.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return uuid.Nil, postgres.MapError(err, "session", string(s.Type))
	}

	return id, nil
}

// RaceWithoutResults identifies a race session that has no result rows.
type RaceWithoutResults struct {
	SessionID   uuid.UUID `db:"session_id"`
	RoundNumber int       `db:"round_number"`
	RoundName   string    `db:"round_name"`
}

// ListRacesWithoutResults returns the season's race sessions with an empty
// result set, ordered by round number. Used by the verifier.
func (r *Repo) ListRacesWithoutResults(ctx context.Context, year int) ([]RaceWithoutResults, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	const sql = `
SELECT se.id AS session_id, r.number AS round_number, r.name AS round_name
FROM sessions se
JOIN rounds r ON r.id = se.round_id
JOIN seasons s ON s.id = r.season_id
LEFT JOIN results res ON res.session_id = se.id
WHERE s.year = $1 AND se.type = 'race' AND res.id IS NULL
ORDER BY r.number`

	races := []RaceWithoutResults{}
	if err := pgxscan.Select(ctx, q, &races, sql, year); err != nil {
		return nil, fmt.Errorf("list races without results for %d: %w", year, err)
	}

	return races, nil
}

// ListByRound returns a round's sessions. Kept for diagnostics; ingestion
// order comes from domain.SessionOrder, not from this query.
func (r *Repo) ListByRound(ctx context.Context, roundID uuid.UUID) ([]domain.Session, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	const sql = `
SELECT id, round_id, type, starts_at
FROM sessions
WHERE round_id = $1
ORDER BY type`

	sessions := []domain.Session{}
	if err := pgxscan.Select(ctx, q, &sessions, sql, roundID); err != nil {
		return nil, fmt.Errorf("list sessions for round %s: %w", roundID, err)
	}

	return sessions, nil
}
