// Package domain defines the core entities of the ingestion pipeline and the
// sentinel errors shared by all layers. Entities are normalized relational
// records; natural keys (year, circuit ref, driver code, ...) are what make
// the upsert layer idempotent, the uuid IDs are storage identifiers only.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Season is one calendar year of competition. Natural key: Year.
type Season struct {
	ID        uuid.UUID `db:"id"`
	Year      int       `db:"year"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Circuit is a venue shared across seasons. Natural key: Ref (the stable
// external identifier, e.g. "monaco"). An empty Name is the placeholder the
// backfill corrector resolves; a non-empty Name is never regressed.
type Circuit struct {
	ID       uuid.UUID `db:"id"`
	Ref      string    `db:"ref"`
	Name     string    `db:"name"`
	Country  *string   `db:"country"`
	Locality *string   `db:"locality"`
}

// Unnamed reports whether the circuit still carries the placeholder name.
func (c Circuit) Unnamed() bool { return c.Name == "" }

// Round is one race weekend. Natural key: (SeasonID, Number).
type Round struct {
	ID        uuid.UUID  `db:"id"`
	SeasonID  uuid.UUID  `db:"season_id"`
	Number    int        `db:"number"`
	Name      string     `db:"name"`
	Country   *string    `db:"country"`
	Location  *string    `db:"location"`
	CircuitID *uuid.UUID `db:"circuit_id"`
	Date      *time.Time `db:"date"`
}

// Session is one timed activity within a round. Natural key: (RoundID, Type).
type Session struct {
	ID       uuid.UUID   `db:"id"`
	RoundID  uuid.UUID   `db:"round_id"`
	Type     SessionType `db:"type"`
	StartsAt *time.Time  `db:"starts_at"`
}

// Team is a constructor, global across seasons. Natural key: Name.
type Team struct {
	ID      uuid.UUID `db:"id"`
	Name    string    `db:"name"`
	Country *string   `db:"country"`
}

// Driver is global across seasons. Natural key: Code (e.g. "VER").
// TeamID tracks the current team and moves with the driver.
type Driver struct {
	ID          uuid.UUID  `db:"id"`
	Code        string     `db:"code"`
	Name        string     `db:"name"`
	Nationality *string    `db:"nationality"`
	TeamID      *uuid.UUID `db:"team_id"`
}

// Result is one driver's classification in a session.
// Natural key: (SessionID, DriverID). Nullable fields stay null when the
// source lacks data (DNF, no time, etc.).
type Result struct {
	ID        uuid.UUID `db:"id"`
	SessionID uuid.UUID `db:"session_id"`
	DriverID  uuid.UUID `db:"driver_id"`
	TeamID    uuid.UUID `db:"team_id"`
	Position  *int      `db:"position"`
	Grid      *int      `db:"grid"`
	Status    *string   `db:"status"`
	TimeMS    *int64    `db:"time_ms"`
	Points    *float64  `db:"points"`
}

// Lap is one timed lap. Natural key: (SessionID, DriverID, Number).
type Lap struct {
	ID        uuid.UUID `db:"id"`
	SessionID uuid.UUID `db:"session_id"`
	DriverID  uuid.UUID `db:"driver_id"`
	Number    int       `db:"number"`
	TimeMS    *int64    `db:"time_ms"`
	Position  *int      `db:"position"`
}
