// Package circuit implements the Circuit repository using PostgreSQL.
// Circuits are season-independent venues keyed by their stable external ref.
// The name column is special: '' is the placeholder for missing data, and a
// real name is monotonic — once set it is never overwritten by a placeholder,
// neither by re-ingestion nor by the backfill corrector.
package circuit

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/pitwall/f1-backend/internal/adapter/postgres"
	"github.com/pitwall/f1-backend/internal/domain"
)

// Repo provides circuit persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new circuit repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Upsert inserts or updates a circuit keyed by ref and returns its id.
// The incoming name only lands when the stored one is still the placeholder;
// country/locality update only when the incoming value is non-null.
func (r *Repo) Upsert(ctx context.Context, c domain.Circuit) (uuid.UUID, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	query := postgres.Builder().
		Insert("circuits").
		Columns("id", "ref", "name", "country", "locality").
		Values(uuid.New(), c.Ref, c.Name, c.Country, c.Locality).
		Suffix(`ON CONFLICT (ref) DO UPDATE SET
			name = CASE WHEN circuits.name = '' THEN EXCLUDED.name ELSE circuits.name END,
			country = COALESCE(EXCLUDED.country, circuits.country),
			locality = COALESCE(EXCLUDED.locality, circuits.locality),
			updated_at = now()
		RETURNING id`)

	sql, args, err := query.ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("build circuit upsert: %w", err)
	}

	var id uuid.UUID
	if err := q.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return uuid.Nil, postgres.MapError(err, "circuit", c.Ref)
	}

	return id, nil
}

// GetByRef returns a circuit by its stable reference identifier.
// Returns domain.ErrNotFound if absent.
func (r *Repo) GetByRef(ctx context.Context, ref string) (*domain.Circuit, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	query := postgres.Builder().
		Select("id", "ref", "name", "country", "locality").
		From("circuits").
		Where("ref = ?", ref)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build circuit select: %w", err)
	}

	var c domain.Circuit
	err = q.QueryRow(ctx, sql, args...).Scan(&c.ID, &c.Ref, &c.Name, &c.Country, &c.Locality)
	if err != nil {
		return nil, postgres.MapError(err, "circuit", ref)
	}

	return &c, nil
}

// UnnamedRef pairs a placeholder-named circuit with a season round that
// references it. The round number is the lookup key for the secondary
// reference source.
type UnnamedRef struct {
	CircuitID   uuid.UUID `db:"circuit_id"`
	Ref         string    `db:"ref"`
	RoundNumber int       `db:"round_number"`
}

// ListUnnamedBySeason returns the circuits referenced by the given season's
// rounds that still carry the placeholder name, ordered by round number.
// A circuit hosting two rounds in one season appears twice; the guarded
// update makes the second entry a no-op. Returns an empty slice (not nil)
// when every circuit is named.
func (r *Repo) ListUnnamedBySeason(ctx context.Context, year int) ([]UnnamedRef, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	const sql = `
SELECT c.id AS circuit_id, c.ref, r.number AS round_number
FROM circuits c
JOIN rounds r ON r.circuit_id = c.id
JOIN seasons s ON s.id = r.season_id
WHERE s.year = $1 AND c.name = ''
ORDER BY r.number`

	refs := []UnnamedRef{}
	if err := pgxscan.Select(ctx, q, &refs, sql, year); err != nil {
		return nil, fmt.Errorf("list unnamed circuits for %d: %w", year, err)
	}

	return refs, nil
}

// SetNameIfUnnamed applies a single-field name correction, guarded so a row
// that already has a real name is left untouched. Reports whether a row was
// corrected. Running it twice with the same inputs corrects zero rows the
// second time.
func (r *Repo) SetNameIfUnnamed(ctx context.Context, id uuid.UUID, name string) (bool, error) {
	if name == "" {
		return false, fmt.Errorf("circuit %s: %w: name must not be a placeholder", id, domain.ErrValidation)
	}

	q := postgres.QuerierFromCtx(ctx, r.db)

	query := postgres.Builder().
		Update("circuits").
		Set("name", name).
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ? AND name = ''", id)

	sql, args, err := query.ToSql()
	if err != nil {
		return false, fmt.Errorf("build circuit name update: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return false, postgres.MapError(err, "circuit", id.String())
	}

	return tag.RowsAffected() > 0, nil
}
