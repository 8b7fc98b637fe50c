// Package season implements the Season repository using PostgreSQL.
// A season is the root of the ingestion dependency tree: one row per year,
// created on first seed and never deleted. Re-seeding is a no-op update.
package season

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pitwall/f1-backend/internal/adapter/postgres"
	"github.com/pitwall/f1-backend/internal/domain"
)

// Repo provides season persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new season repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Upsert inserts the season row for year if absent and returns its id.
// Natural key: year. Concurrent callers converge on one row via the unique
// constraint; the DO UPDATE arm makes RETURNING work on the existing row too.
func (r *Repo) Upsert(ctx context.Context, year int) (uuid.UUID, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	query := postgres.Builder().
		Insert("seasons").
		Columns("id", "year").
		Values(uuid.New(), year).
		Suffix("ON CONFLICT (year) DO UPDATE SET updated_at = now() RETURNING id")

	sql, args, err := query.ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("build season upsert: %w", err)
	}

	var id uuid.UUID
	if err := q.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return uuid.Nil, postgres.MapError(err, "season", fmt.Sprint(year))
	}

	return id, nil
}

// GetByYear returns the season row for year.
// Returns domain.ErrNotFound if the year has never been seeded.
func (r *Repo) GetByYear(ctx context.Context, year int) (*domain.Season, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	query := postgres.Builder().
		Select("id", "year", "created_at", "updated_at").
		From("seasons").
		Where("year = ?", year)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build season select: %w", err)
	}

	var s domain.Season
	err = q.QueryRow(ctx, sql, args...).Scan(&s.ID, &s.Year, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "season", fmt.Sprint(year))
	}

	return &s, nil
}
