package openf1

import (
	"strings"
	"time"

	"github.com/pitwall/f1-backend/internal/domain"
)

// Raw API payloads. Only the fields the pipeline consumes are decoded;
// everything else the API sends is ignored.

type apiMeeting struct {
	MeetingKey       int    `json:"meeting_key"`
	MeetingName      string `json:"meeting_name"`
	CircuitKey       int    `json:"circuit_key"`
	CircuitShortName string `json:"circuit_short_name"`
	CountryName      string `json:"country_name"`
	Location         string `json:"location"`
	DateStart        string `json:"date_start"`
	Year             int    `json:"year"`
}

type apiSession struct {
	SessionKey  int    `json:"session_key"`
	MeetingKey  int    `json:"meeting_key"`
	SessionName string `json:"session_name"`
	SessionType string `json:"session_type"`
	DateStart   string `json:"date_start"`
}

type apiResult struct {
	DriverNumber int      `json:"driver_number"`
	Position     *int     `json:"position"`
	Duration     *float64 `json:"duration"`
	Points       *float64 `json:"points"`
	DNF          bool     `json:"dnf"`
	DNS          bool     `json:"dns"`
	DSQ          bool     `json:"dsq"`
}

type apiDriver struct {
	DriverNumber int    `json:"driver_number"`
	FullName     string `json:"full_name"`
	NameAcronym  string `json:"name_acronym"`
	TeamName     string `json:"team_name"`
	CountryCode  string `json:"country_code"`
}

type apiGridSlot struct {
	DriverNumber int  `json:"driver_number"`
	Position     *int `json:"position"`
}

type apiLap struct {
	DriverNumber int      `json:"driver_number"`
	LapNumber    int      `json:"lap_number"`
	LapDuration  *float64 `json:"lap_duration"`
	Position     *int     `json:"position"`
}

// mapSessionType converts the API's session naming into the canonical typed
// sessions the schema stores. Returns false for sessions the pipeline does
// not ingest (e.g. unknown future formats).
func mapSessionType(name string) (domain.SessionType, bool) {
	switch {
	case name == "Race":
		return domain.SessionRace, true
	case name == "Sprint":
		return domain.SessionSprint, true
	case strings.Contains(name, "Qualifying"), strings.Contains(name, "Shootout"):
		return domain.SessionQualifying, true
	case strings.Contains(name, "Practice"):
		return domain.SessionPractice, true
	}
	return "", false
}

// status derives the classification status string from the API's flags.
func (r apiResult) status() *string {
	var s string
	switch {
	case r.DSQ:
		s = "DSQ"
	case r.DNS:
		s = "DNS"
	case r.DNF:
		s = "DNF"
	default:
		s = "Finished"
	}
	return &s
}

// timeMS converts a duration in seconds to whole milliseconds.
func (r apiResult) timeMS() *int64 {
	if r.Duration == nil {
		return nil
	}
	ms := int64(*r.Duration * 1000)
	return &ms
}

func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
