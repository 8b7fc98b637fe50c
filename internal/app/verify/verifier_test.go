package verify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/pitwall/f1-backend/internal/adapter/postgres/circuit"
	"github.com/pitwall/f1-backend/internal/adapter/postgres/session"
	"github.com/pitwall/f1-backend/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockRoundRepo struct {
	rounds []domain.Round
	err    error
}

func (m *mockRoundRepo) ListWithoutSessions(_ context.Context, _ int) ([]domain.Round, error) {
	return m.rounds, m.err
}

type mockSessionRepo struct {
	races []session.RaceWithoutResults
}

func (m *mockSessionRepo) ListRacesWithoutResults(_ context.Context, _ int) ([]session.RaceWithoutResults, error) {
	return m.races, nil
}

type mockCircuitRepo struct {
	unnamed []circuit.UnnamedRef
}

func (m *mockCircuitRepo) ListUnnamedBySeason(_ context.Context, _ int) ([]circuit.UnnamedRef, error) {
	return m.unnamed, nil
}

type mockCounter struct {
	count int
}

func (m *mockCounter) CountOrphans(_ context.Context) (int, error) {
	return m.count, nil
}

func cleanVerifier() *Verifier {
	return NewVerifier(testLogger(),
		&mockRoundRepo{}, &mockSessionRepo{}, &mockCircuitRepo{},
		&mockCounter{}, &mockCounter{})
}

func TestVerifier_AllChecksPass(t *testing.T) {
	t.Parallel()

	report, err := cleanVerifier().VerifySeason(context.Background(), 2025)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Checks) != 4 {
		t.Fatalf("len(Checks) = %d, want 4", len(report.Checks))
	}
	if !report.Passed() {
		t.Errorf("Passed() = false, want true: %+v", report.Checks)
	}

	wantNames := []string{"rounds_have_sessions", "races_have_results", "circuits_named", "no_orphan_rows"}
	for i, name := range wantNames {
		if report.Checks[i].Name != name {
			t.Errorf("Checks[%d].Name = %q, want %q", i, report.Checks[i].Name, name)
		}
	}
}

func TestVerifier_CancelledRoundFlagged(t *testing.T) {
	t.Parallel()

	v := NewVerifier(testLogger(),
		&mockRoundRepo{rounds: []domain.Round{{Number: 5, Name: "Emilia Romagna Grand Prix"}}},
		&mockSessionRepo{}, &mockCircuitRepo{},
		&mockCounter{}, &mockCounter{})

	report, err := v.VerifySeason(context.Background(), 2024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Passed() {
		t.Error("Passed() = true, want false with a session-less round")
	}

	check := report.Checks[0]
	if check.Passed {
		t.Error("rounds_have_sessions passed, want failed")
	}
	if !strings.Contains(check.Detail, "round 5") {
		t.Errorf("Detail = %q, want mention of round 5", check.Detail)
	}
}

func TestVerifier_PlaceholderCircuitsFlagged(t *testing.T) {
	t.Parallel()

	v := NewVerifier(testLogger(),
		&mockRoundRepo{}, &mockSessionRepo{},
		&mockCircuitRepo{unnamed: []circuit.UnnamedRef{
			{CircuitID: uuid.New(), Ref: "monte_carlo", RoundNumber: 8},
			{CircuitID: uuid.New(), Ref: "monte_carlo", RoundNumber: 9},
		}},
		&mockCounter{}, &mockCounter{})

	report, err := v.VerifySeason(context.Background(), 2025)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	check := report.Checks[2]
	if check.Passed {
		t.Error("circuits_named passed, want failed")
	}
	// The same circuit referenced by two rounds is reported once.
	if got := strings.Count(check.Detail, "monte_carlo"); got != 1 {
		t.Errorf("Detail mentions monte_carlo %d times, want 1: %q", got, check.Detail)
	}
}

func TestVerifier_OrphansFlagged(t *testing.T) {
	t.Parallel()

	v := NewVerifier(testLogger(),
		&mockRoundRepo{}, &mockSessionRepo{}, &mockCircuitRepo{},
		&mockCounter{count: 2}, &mockCounter{})

	report, err := v.VerifySeason(context.Background(), 2025)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Checks[3].Passed {
		t.Error("no_orphan_rows passed, want failed")
	}
}

func TestVerifier_RepoErrorAbortsPass(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	v := NewVerifier(testLogger(),
		&mockRoundRepo{err: boom},
		&mockSessionRepo{}, &mockCircuitRepo{},
		&mockCounter{}, &mockCounter{})

	_, err := v.VerifySeason(context.Background(), 2025)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped repo error", err)
	}
}
