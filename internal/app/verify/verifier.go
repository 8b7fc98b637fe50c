// Package verify runs read-only health checks over one seeded season. It
// reports findings and never mutates state; the backfill corrector and a
// re-seed are the repair tools.
package verify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pitwall/f1-backend/internal/adapter/postgres/circuit"
	"github.com/pitwall/f1-backend/internal/adapter/postgres/session"
	"github.com/pitwall/f1-backend/internal/domain"
)

// Repository contracts consumed by the verifier, implemented by the
// postgres entity repositories.

type RoundRepo interface {
	ListWithoutSessions(ctx context.Context, year int) ([]domain.Round, error)
}

type SessionRepo interface {
	ListRacesWithoutResults(ctx context.Context, year int) ([]session.RaceWithoutResults, error)
}

type CircuitRepo interface {
	ListUnnamedBySeason(ctx context.Context, year int) ([]circuit.UnnamedRef, error)
}

type OrphanCounter interface {
	CountOrphans(ctx context.Context) (int, error)
}

// Check is one verification finding.
type Check struct {
	Name   string
	Passed bool
	Detail string
}

// Report is the outcome of one verification pass.
type Report struct {
	Year   int
	Checks []Check
}

// Passed reports whether every check passed.
func (r *Report) Passed() bool {
	for _, c := range r.Checks {
		if !c.Passed {
			return false
		}
	}
	return true
}

// Verifier runs the season health checks.
type Verifier struct {
	log      *slog.Logger
	rounds   RoundRepo
	sessions SessionRepo
	circuits CircuitRepo
	results  OrphanCounter
	laps     OrphanCounter
}

// NewVerifier creates a new Verifier.
func NewVerifier(log *slog.Logger, rounds RoundRepo, sessions SessionRepo, circuits CircuitRepo, results, laps OrphanCounter) *Verifier {
	return &Verifier{
		log:      log.With("component", "verify"),
		rounds:   rounds,
		sessions: sessions,
		circuits: circuits,
		results:  results,
		laps:     laps,
	}
}

// VerifySeason runs all checks for one season and returns the findings.
// An error means a check could not run at all, not that it failed.
func (v *Verifier) VerifySeason(ctx context.Context, year int) (*Report, error) {
	report := &Report{Year: year}

	emptyRounds, err := v.rounds.ListWithoutSessions(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("check rounds: %w", err)
	}
	report.Checks = append(report.Checks, Check{
		Name:   "rounds_have_sessions",
		Passed: len(emptyRounds) == 0,
		Detail: roundsDetail(emptyRounds),
	})

	emptyRaces, err := v.sessions.ListRacesWithoutResults(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("check races: %w", err)
	}
	report.Checks = append(report.Checks, Check{
		Name:   "races_have_results",
		Passed: len(emptyRaces) == 0,
		Detail: racesDetail(emptyRaces),
	})

	unnamed, err := v.circuits.ListUnnamedBySeason(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("check circuits: %w", err)
	}
	report.Checks = append(report.Checks, Check{
		Name:   "circuits_named",
		Passed: len(unnamed) == 0,
		Detail: circuitsDetail(unnamed),
	})

	orphanResults, err := v.results.CountOrphans(ctx)
	if err != nil {
		return nil, fmt.Errorf("check orphan results: %w", err)
	}
	orphanLaps, err := v.laps.CountOrphans(ctx)
	if err != nil {
		return nil, fmt.Errorf("check orphan laps: %w", err)
	}
	report.Checks = append(report.Checks, Check{
		Name:   "no_orphan_rows",
		Passed: orphanResults == 0 && orphanLaps == 0,
		Detail: orphansDetail(orphanResults, orphanLaps),
	})

	for _, c := range report.Checks {
		v.log.InfoContext(ctx, "verification check",
			slog.Int("year", year),
			slog.String("check", c.Name),
			slog.Bool("passed", c.Passed),
			slog.String("detail", c.Detail),
		)
	}

	return report, nil
}

func roundsDetail(rounds []domain.Round) string {
	if len(rounds) == 0 {
		return "every round has at least one session"
	}
	parts := make([]string, len(rounds))
	for i, r := range rounds {
		parts[i] = fmt.Sprintf("round %d (%s)", r.Number, r.Name)
	}
	return "rounds without sessions: " + strings.Join(parts, ", ")
}

func racesDetail(races []session.RaceWithoutResults) string {
	if len(races) == 0 {
		return "every race session has results"
	}
	parts := make([]string, len(races))
	for i, r := range races {
		parts[i] = fmt.Sprintf("round %d (%s)", r.RoundNumber, r.RoundName)
	}
	return "race sessions without results: " + strings.Join(parts, ", ")
}

func circuitsDetail(unnamed []circuit.UnnamedRef) string {
	if len(unnamed) == 0 {
		return "every circuit has a real name"
	}
	seen := make(map[string]bool, len(unnamed))
	var parts []string
	for _, u := range unnamed {
		if seen[u.Ref] {
			continue
		}
		seen[u.Ref] = true
		parts = append(parts, u.Ref)
	}
	return "circuits with placeholder names: " + strings.Join(parts, ", ")
}

func orphansDetail(results, laps int) string {
	if results == 0 && laps == 0 {
		return "no orphaned result or lap rows"
	}
	return fmt.Sprintf("orphaned rows: %d results, %d laps", results, laps)
}
