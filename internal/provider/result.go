// Package provider defines the data-transfer structures and error taxonomy
// shared by all external data source adapters. Adapters validate raw API
// payloads at the boundary and hand these structures to the pipeline; nothing
// untyped crosses into the repository layer.
package provider

import (
	"errors"
	"time"

	"github.com/pitwall/f1-backend/internal/domain"
)

// Adapter failure classification. Callers branch on these with errors.Is:
// ErrNotFound means the data does not exist for that key (skip, non-retryable);
// ErrTransient means a network/rate-limit/server failure worth retrying.
var (
	ErrNotFound  = errors.New("provider: not found")
	ErrTransient = errors.New("provider: transient failure")
)

// SeasonSchedule is the round/session structure of one season as reported by
// the primary source.
type SeasonSchedule struct {
	Year   int
	Rounds []RoundSchedule
}

// RoundSchedule is one scheduled race weekend. CircuitName may be empty when
// the primary source does not carry it; the backfill corrector resolves it
// later via the secondary source.
type RoundSchedule struct {
	Number      int
	Name        string
	Country     *string
	Location    *string
	CircuitRef  string
	CircuitName string
	Date        *time.Time
	Sessions    []SessionRef
}

// SessionRef identifies one session scheduled within a round. Key is the
// provider's opaque session identifier, passed back on FetchSession calls.
type SessionRef struct {
	Type     domain.SessionType
	StartsAt *time.Time
	Key      string
}

// SessionData is the full classification of one session: the final result
// rows plus per-lap timing.
type SessionData struct {
	Results []ResultRow
	Laps    []LapRow
}

// ResultRow is one driver's classification in a session. Driver and team are
// identified by their natural keys; the pipeline resolves them to stored IDs.
type ResultRow struct {
	DriverCode  string
	DriverName  string
	Nationality *string
	TeamName    string
	TeamCountry *string
	Position    *int
	Grid        *int
	Status      *string
	TimeMS      *int64
	Points      *float64
}

// LapRow is one timed lap keyed by driver code and lap number.
type LapRow struct {
	DriverCode string
	Number     int
	TimeMS     *int64
	Position   *int
}

// CircuitInfo is the canonical circuit record from the secondary reference
// source, used only for corrections.
type CircuitInfo struct {
	Ref      string
	Name     string
	Country  *string
	Locality *string
}
