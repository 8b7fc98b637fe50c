package seeder

import (
	"time"

	"github.com/pitwall/f1-backend/internal/domain"
)

// SessionOutcome classifies how one scheduled session ended up.
type SessionOutcome string

const (
	// OutcomeSeeded means the session's rows were committed.
	OutcomeSeeded SessionOutcome = "seeded"
	// OutcomeSkipped means the source has no data for the session
	// (future or cancelled events); nothing was written.
	OutcomeSkipped SessionOutcome = "skipped"
	// OutcomeFailed means the session gave up after retries or its
	// transaction failed; the run continued without it.
	OutcomeFailed SessionOutcome = "failed"
)

// SessionReport is the outcome of one scheduled session.
type SessionReport struct {
	Round   int
	Type    domain.SessionType
	Outcome SessionOutcome
	Results int
	Laps    int
	Err     error
}

// SeedReport summarizes one season-seed run.
type SeedReport struct {
	Year   int
	Rounds int
	// FailedRounds lists round numbers whose own (or circuit) upsert
	// failed; their sessions were not attempted and a re-run picks them up.
	FailedRounds []int
	Sessions     []SessionReport
	Duration     time.Duration
}

func (r *SeedReport) count(o SessionOutcome) int {
	n := 0
	for _, s := range r.Sessions {
		if s.Outcome == o {
			n++
		}
	}
	return n
}

// Seeded returns how many sessions committed.
func (r *SeedReport) Seeded() int { return r.count(OutcomeSeeded) }

// Skipped returns how many sessions had no source data.
func (r *SeedReport) Skipped() int { return r.count(OutcomeSkipped) }

// Failed returns how many sessions gave up after retries.
func (r *SeedReport) Failed() int { return r.count(OutcomeFailed) }

// HasFailures reports whether any round upsert failed or any session ended
// in OutcomeFailed. Skipped sessions are expected and do not count.
func (r *SeedReport) HasFailures() bool { return r.Failed() > 0 || len(r.FailedRounds) > 0 }
