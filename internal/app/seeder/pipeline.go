package seeder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/pitwall/f1-backend/internal/config"
	"github.com/pitwall/f1-backend/internal/domain"
	"github.com/pitwall/f1-backend/internal/provider"
)

// Pipeline seeds one season end to end. A run never aborts on a single
// round's or session's failure: sessions the source does not know are
// skipped, sessions that keep failing transiently are retried with backoff
// and then recorded as failed, rounds whose own upsert fails are recorded
// and their sessions left for the next run, and the run carries on. Only the
// season itself failing is fatal. Re-running the same season converges on
// the same rows.
type Pipeline struct {
	log   *slog.Logger
	src   SeasonSource
	repos Repos
	tx    TxRunner
	cfg   config.SeedConfig
}

// NewPipeline creates a new Pipeline.
func NewPipeline(log *slog.Logger, src SeasonSource, repos Repos, tx TxRunner, cfg config.SeedConfig) *Pipeline {
	return &Pipeline{
		log:   log.With("component", "seeder"),
		src:   src,
		repos: repos,
		tx:    tx,
		cfg:   cfg,
	}
}

// SeedSeason ingests one season. It returns a non-nil report whenever the
// season itself was resolved; the error is non-nil only for fatal failures
// (season fetch, season upsert, context cancellation).
func (p *Pipeline) SeedSeason(ctx context.Context, year int) (*SeedReport, error) {
	start := time.Now()

	schedule, err := p.src.FetchSeason(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("fetch season %d: %w", year, err)
	}

	seasonID, err := p.repos.Seasons.Upsert(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("upsert season %d: %w", year, err)
	}

	report := &SeedReport{Year: year}

	rounds := make([]provider.RoundSchedule, len(schedule.Rounds))
	copy(rounds, schedule.Rounds)
	sort.Slice(rounds, func(i, j int) bool { return rounds[i].Number < rounds[j].Number })

	for _, round := range rounds {
		if round.Number <= 0 {
			p.log.WarnContext(ctx, "skipping round without a number", slog.String("name", round.Name))
			continue
		}

		roundID, err := p.seedRound(ctx, seasonID, round)
		if err != nil {
			if ctx.Err() != nil {
				report.Duration = time.Since(start)
				return report, fmt.Errorf("seed season %d: %w", year, ctx.Err())
			}
			p.log.WarnContext(ctx, "round upsert failed, skipping its sessions",
				slog.Int("round", round.Number),
				slog.String("error", err.Error()),
			)
			report.FailedRounds = append(report.FailedRounds, round.Number)
			continue
		}
		report.Rounds++

		for _, typ := range domain.SessionOrder {
			for _, ref := range round.Sessions {
				if ref.Type != typ {
					continue
				}
				sr := p.seedSession(ctx, roundID, round.Number, ref)
				report.Sessions = append(report.Sessions, sr)

				if sr.Outcome == OutcomeFailed && ctx.Err() != nil {
					report.Duration = time.Since(start)
					return report, fmt.Errorf("seed season %d: %w", year, ctx.Err())
				}
			}
		}
	}

	report.Duration = time.Since(start)
	p.log.InfoContext(ctx, "season seeded",
		slog.Int("year", year),
		slog.Int("rounds", report.Rounds),
		slog.Int("failed_rounds", len(report.FailedRounds)),
		slog.Int("seeded", report.Seeded()),
		slog.Int("skipped", report.Skipped()),
		slog.Int("failed", report.Failed()),
		slog.Duration("duration", report.Duration),
	)

	return report, nil
}

// seedRound persists the round's circuit and the round itself. Circuits
// arrive with the placeholder name; the backfill corrector names them later.
func (p *Pipeline) seedRound(ctx context.Context, seasonID uuid.UUID, round provider.RoundSchedule) (uuid.UUID, error) {
	r := domain.Round{
		SeasonID: seasonID,
		Number:   round.Number,
		Name:     round.Name,
		Country:  round.Country,
		Location: round.Location,
		Date:     round.Date,
	}

	if round.CircuitRef != "" {
		circuitID, err := p.repos.Circuits.Upsert(ctx, domain.Circuit{
			Ref:      round.CircuitRef,
			Name:     round.CircuitName,
			Country:  round.Country,
			Locality: round.Location,
		})
		if err != nil {
			return uuid.Nil, fmt.Errorf("upsert circuit %s: %w", round.CircuitRef, err)
		}
		r.CircuitID = &circuitID
	}

	return p.repos.Rounds.Upsert(ctx, r)
}

// seedSession fetches one session with retry and commits its rows in one
// transaction, so a session is visible atomically or not at all.
func (p *Pipeline) seedSession(ctx context.Context, roundID uuid.UUID, roundNumber int, ref provider.SessionRef) SessionReport {
	sr := SessionReport{Round: roundNumber, Type: ref.Type}

	data, err := p.fetchWithRetry(ctx, ref)
	switch {
	case errors.Is(err, provider.ErrNotFound):
		p.log.InfoContext(ctx, "session has no source data, skipping",
			slog.Int("round", roundNumber),
			slog.String("type", string(ref.Type)),
		)
		sr.Outcome = OutcomeSkipped
		return sr
	case err != nil:
		p.log.WarnContext(ctx, "session fetch gave up",
			slog.Int("round", roundNumber),
			slog.String("type", string(ref.Type)),
			slog.String("error", err.Error()),
		)
		sr.Outcome = OutcomeFailed
		sr.Err = err
		return sr
	}

	err = p.tx.RunInTx(ctx, func(ctx context.Context) error {
		sessionID, err := p.repos.Sessions.Upsert(ctx, domain.Session{
			RoundID:  roundID,
			Type:     ref.Type,
			StartsAt: ref.StartsAt,
		})
		if err != nil {
			return fmt.Errorf("upsert session: %w", err)
		}

		teamIDs := make(map[string]uuid.UUID)
		driverIDs := make(map[string]uuid.UUID)

		for _, row := range data.Results {
			teamID, ok := teamIDs[row.TeamName]
			if !ok {
				teamID, err = p.repos.Teams.Upsert(ctx, domain.Team{
					Name:    row.TeamName,
					Country: row.TeamCountry,
				})
				if err != nil {
					return fmt.Errorf("upsert team %s: %w", row.TeamName, err)
				}
				teamIDs[row.TeamName] = teamID
			}

			driverID, err := p.repos.Drivers.Upsert(ctx, domain.Driver{
				Code:        row.DriverCode,
				Name:        row.DriverName,
				Nationality: row.Nationality,
				TeamID:      &teamID,
			})
			if err != nil {
				return fmt.Errorf("upsert driver %s: %w", row.DriverCode, err)
			}
			driverIDs[row.DriverCode] = driverID

			if _, err := p.repos.Results.Upsert(ctx, domain.Result{
				SessionID: sessionID,
				DriverID:  driverID,
				TeamID:    teamID,
				Position:  row.Position,
				Grid:      row.Grid,
				Status:    row.Status,
				TimeMS:    row.TimeMS,
				Points:    row.Points,
			}); err != nil {
				return fmt.Errorf("upsert result for %s: %w", row.DriverCode, err)
			}
		}
		sr.Results = len(data.Results)

		if p.cfg.IncludeLaps {
			laps := make([]domain.Lap, 0, len(data.Laps))
			for _, l := range data.Laps {
				driverID, ok := driverIDs[l.DriverCode]
				if !ok {
					// Lap rows without a classified driver cannot be keyed.
					continue
				}
				laps = append(laps, domain.Lap{
					SessionID: sessionID,
					DriverID:  driverID,
					Number:    l.Number,
					TimeMS:    l.TimeMS,
					Position:  l.Position,
				})
			}
			n, err := p.repos.Laps.UpsertBatch(ctx, laps)
			if err != nil {
				return fmt.Errorf("upsert laps: %w", err)
			}
			sr.Laps = n
		}

		return nil
	})
	if err != nil {
		p.log.WarnContext(ctx, "session transaction failed",
			slog.Int("round", roundNumber),
			slog.String("type", string(ref.Type)),
			slog.String("error", err.Error()),
		)
		sr.Outcome = OutcomeFailed
		sr.Err = err
		sr.Results = 0
		sr.Laps = 0
		return sr
	}

	sr.Outcome = OutcomeSeeded
	return sr
}

// fetchWithRetry retries transient session-fetch failures with exponential
// backoff, bounded by the configured retry count. NotFound and other
// non-transient failures are permanent and returned immediately.
func (p *Pipeline) fetchWithRetry(ctx context.Context, ref provider.SessionRef) (*provider.SessionData, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = p.cfg.InitialBackoff
	bo.MaxInterval = p.cfg.MaxBackoff

	var data *provider.SessionData
	op := func() error {
		d, err := p.src.FetchSession(ctx, ref)
		if err != nil {
			if errors.Is(err, provider.ErrTransient) {
				return err
			}
			return backoff.Permanent(err)
		}
		data = d
		return nil
	}

	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, uint64(p.cfg.SessionRetries)), ctx))
	if err != nil {
		return nil, err
	}
	return data, nil
}
