package domain

import (
	"errors"
	"testing"
)

func TestParseSessionType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    SessionType
		wantErr bool
	}{
		{"practice", SessionPractice, false},
		{"qualifying", SessionQualifying, false},
		{"sprint", SessionSprint, false},
		{"race", SessionRace, false},
		{"fp1", "", true},
		{"", "", true},
		{"Race", "", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseSessionType(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSessionType(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrValidation) {
				t.Errorf("ParseSessionType(%q) error = %v, want ErrValidation", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseSessionType(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSessionOrder_RaceLast(t *testing.T) {
	t.Parallel()

	// Results reference drivers introduced in earlier sessions, so the race
	// must always come last and practice first.
	if SessionOrder[0] != SessionPractice {
		t.Errorf("SessionOrder[0] = %q, want practice", SessionOrder[0])
	}
	if SessionOrder[len(SessionOrder)-1] != SessionRace {
		t.Errorf("SessionOrder last = %q, want race", SessionOrder[len(SessionOrder)-1])
	}

	seen := make(map[SessionType]bool)
	for _, st := range SessionOrder {
		if !st.Valid() {
			t.Errorf("SessionOrder contains invalid type %q", st)
		}
		if seen[st] {
			t.Errorf("SessionOrder contains duplicate %q", st)
		}
		seen[st] = true
	}
	if len(seen) != 4 {
		t.Errorf("SessionOrder has %d distinct types, want 4", len(seen))
	}
}

func TestCircuit_Unnamed(t *testing.T) {
	t.Parallel()

	if !(Circuit{Ref: "monaco"}).Unnamed() {
		t.Error("circuit with empty name should be unnamed")
	}
	if (Circuit{Ref: "monaco", Name: "Circuit de Monaco"}).Unnamed() {
		t.Error("circuit with real name should not be unnamed")
	}
}
