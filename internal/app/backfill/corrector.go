// Package backfill corrects circuit records that were seeded with the
// placeholder name. The primary source only carries a short circuit
// identifier, so rounds enter the store with unnamed circuits; this pass
// resolves the canonical names from the secondary reference source.
package backfill

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pitwall/f1-backend/internal/adapter/postgres/circuit"
	"github.com/pitwall/f1-backend/internal/provider"
)

// CircuitSource serves canonical circuit records keyed by season and round.
// Implemented by jolpica.Provider.
type CircuitSource interface {
	FetchCircuit(ctx context.Context, year, round int) (*provider.CircuitInfo, error)
}

// CircuitRepo is the repository contract the corrector needs.
// Implemented by circuit.Repo.
type CircuitRepo interface {
	ListUnnamedBySeason(ctx context.Context, year int) ([]circuit.UnnamedRef, error)
	SetNameIfUnnamed(ctx context.Context, id uuid.UUID, name string) (bool, error)
}

// Report summarizes one backfill pass.
type Report struct {
	Year       int
	Scanned    int
	Corrected  int
	Unresolved int
}

// Corrector names placeholder circuits from the secondary source.
// The pass is idempotent: the update is guarded on the placeholder, so a
// second run with no new data corrects zero rows.
type Corrector struct {
	log  *slog.Logger
	src  CircuitSource
	repo CircuitRepo
}

// NewCorrector creates a new Corrector.
func NewCorrector(log *slog.Logger, src CircuitSource, repo CircuitRepo) *Corrector {
	return &Corrector{
		log:  log.With("component", "backfill"),
		src:  src,
		repo: repo,
	}
}

// BackfillCircuitNames resolves names for every placeholder circuit
// referenced by the given season's rounds. Circuits the secondary source
// does not know keep the placeholder and count as unresolved; only that
// outcome and transient source failures distinguish an incomplete pass.
func (c *Corrector) BackfillCircuitNames(ctx context.Context, year int) (*Report, error) {
	refs, err := c.repo.ListUnnamedBySeason(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("list unnamed circuits: %w", err)
	}

	report := &Report{Year: year, Scanned: len(refs)}

	for _, ref := range refs {
		info, err := c.src.FetchCircuit(ctx, year, ref.RoundNumber)
		switch {
		case errors.Is(err, provider.ErrNotFound):
			c.log.InfoContext(ctx, "no reference record for circuit, leaving placeholder",
				slog.String("ref", ref.Ref),
				slog.Int("round", ref.RoundNumber),
			)
			report.Unresolved++
			continue
		case err != nil:
			return report, fmt.Errorf("fetch circuit for round %d: %w", ref.RoundNumber, err)
		}

		corrected, err := c.repo.SetNameIfUnnamed(ctx, ref.CircuitID, info.Name)
		if err != nil {
			return report, fmt.Errorf("set name for circuit %s: %w", ref.Ref, err)
		}
		if corrected {
			report.Corrected++
			// The reference source keys circuits by its own identifier
			// scheme; logging both sides leaves an audit trail in case the
			// round-number match ever pairs the wrong records.
			c.log.InfoContext(ctx, "circuit named",
				slog.String("ref", ref.Ref),
				slog.String("source_ref", info.Ref),
				slog.String("name", info.Name),
			)
		}
	}

	c.log.InfoContext(ctx, "backfill pass completed",
		slog.Int("year", year),
		slog.Int("scanned", report.Scanned),
		slog.Int("corrected", report.Corrected),
		slog.Int("unresolved", report.Unresolved),
	)

	return report, nil
}
