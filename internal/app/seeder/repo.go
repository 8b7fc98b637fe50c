// Package seeder orchestrates one season-seed run: it walks the season
// schedule from the primary source and persists every round, session,
// classification and lap through the idempotent repository layer.
package seeder

import (
	"context"

	"github.com/google/uuid"

	"github.com/pitwall/f1-backend/internal/domain"
	"github.com/pitwall/f1-backend/internal/provider"
)

// SeasonSource is the read boundary the pipeline ingests from.
// Implemented by openf1.Provider.
type SeasonSource interface {
	FetchSeason(ctx context.Context, year int) (*provider.SeasonSchedule, error)
	FetchSession(ctx context.Context, ref provider.SessionRef) (*provider.SessionData, error)
}

// TxRunner scopes a function to one database transaction.
// Implemented by postgres.TxManager.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Per-entity repository contracts consumed by the pipeline. All methods use
// only domain types; implemented by the postgres entity repositories.

type SeasonRepo interface {
	Upsert(ctx context.Context, year int) (uuid.UUID, error)
}

type CircuitRepo interface {
	Upsert(ctx context.Context, c domain.Circuit) (uuid.UUID, error)
}

type RoundRepo interface {
	Upsert(ctx context.Context, r domain.Round) (uuid.UUID, error)
}

type SessionRepo interface {
	Upsert(ctx context.Context, s domain.Session) (uuid.UUID, error)
}

type TeamRepo interface {
	Upsert(ctx context.Context, t domain.Team) (uuid.UUID, error)
}

type DriverRepo interface {
	Upsert(ctx context.Context, d domain.Driver) (uuid.UUID, error)
}

type ResultRepo interface {
	Upsert(ctx context.Context, r domain.Result) (uuid.UUID, error)
}

type LapRepo interface {
	UpsertBatch(ctx context.Context, laps []domain.Lap) (int, error)
}

// Repos bundles the entity repositories the pipeline writes through.
type Repos struct {
	Seasons  SeasonRepo
	Circuits CircuitRepo
	Rounds   RoundRepo
	Sessions SessionRepo
	Teams    TeamRepo
	Drivers  DriverRepo
	Results  ResultRepo
	Laps     LapRepo
}
