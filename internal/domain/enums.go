package domain

import "fmt"

// SessionType identifies one timed activity within a race weekend.
type SessionType string

const (
	SessionPractice   SessionType = "practice"
	SessionQualifying SessionType = "qualifying"
	SessionSprint     SessionType = "sprint"
	SessionRace       SessionType = "race"
)

// SessionOrder is the canonical ingestion order within a round.
// Later sessions may reference drivers first seen in earlier ones.
var SessionOrder = []SessionType{
	SessionPractice,
	SessionQualifying,
	SessionSprint,
	SessionRace,
}

// Valid reports whether t is a known session type.
func (t SessionType) Valid() bool {
	switch t {
	case SessionPractice, SessionQualifying, SessionSprint, SessionRace:
		return true
	}
	return false
}

// ParseSessionType converts a string to a SessionType.
func ParseSessionType(s string) (SessionType, error) {
	t := SessionType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: unknown session type %q", ErrValidation, s)
	}
	return t, nil
}

func (t SessionType) String() string { return string(t) }
