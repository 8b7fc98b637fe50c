package circuit_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitwall/f1-backend/internal/adapter/postgres/circuit"
	"github.com/pitwall/f1-backend/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestRepo_Upsert_ReturnsID(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	want := uuid.New()
	mock.ExpectQuery(`INSERT INTO circuits`).
		WithArgs(pgxmock.AnyArg(), "monaco", "", strPtr("Monaco"), strPtr("Monte-Carlo")).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(want))

	repo := circuit.New(mock)
	got, err := repo.Upsert(context.Background(), domain.Circuit{
		Ref:      "monaco",
		Name:     "",
		Country:  strPtr("Monaco"),
		Locality: strPtr("Monte-Carlo"),
	})

	require.NoError(t, err)
	assert.Equal(t, want, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_Upsert_MonotonicNameSQL(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	// The conflict arm must keep an existing real name: the incoming value
	// only lands when the stored name is still the placeholder.
	mock.ExpectQuery(`ON CONFLICT \(ref\) DO UPDATE SET\s+name = CASE WHEN circuits\.name = ''`).
		WithArgs(pgxmock.AnyArg(), "monza", "Autodromo Nazionale Monza", (*string)(nil), (*string)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(uuid.New()))

	repo := circuit.New(mock)
	_, err = repo.Upsert(context.Background(), domain.Circuit{
		Ref:  "monza",
		Name: "Autodromo Nazionale Monza",
	})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_SetNameIfUnnamed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		rowsAffected int64
		want         bool
	}{
		{name: "placeholder corrected", rowsAffected: 1, want: true},
		{name: "already named, guard holds", rowsAffected: 0, want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			id := uuid.New()
			mock.ExpectExec(`UPDATE circuits SET name = \$1.+WHERE id = \$2 AND name = ''`).
				WithArgs("Circuit de Monaco", id).
				WillReturnResult(pgxmock.NewResult("UPDATE", tt.rowsAffected))

			repo := circuit.New(mock)
			got, err := repo.SetNameIfUnnamed(context.Background(), id, "Circuit de Monaco")

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepo_SetNameIfUnnamed_RejectsPlaceholder(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := circuit.New(mock)
	_, err = repo.SetNameIfUnnamed(context.Background(), uuid.New(), "")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation), "want ErrValidation, got %v", err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_ListUnnamedBySeason(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	mock.ExpectQuery(`SELECT c\.id AS circuit_id, c\.ref, r\.number AS round_number`).
		WithArgs(2024).
		WillReturnRows(pgxmock.NewRows([]string{"circuit_id", "ref", "round_number"}).
			AddRow(id, "monte_carlo", 8))

	repo := circuit.New(mock)
	got, err := repo.ListUnnamedBySeason(context.Background(), 2024)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, id, got[0].CircuitID)
	assert.Equal(t, "monte_carlo", got[0].Ref)
	assert.Equal(t, 8, got[0].RoundNumber)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_GetByRef(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	mock.ExpectQuery(`SELECT id, ref, name, country, locality FROM circuits WHERE ref = \$1`).
		WithArgs("monza").
		WillReturnRows(pgxmock.NewRows([]string{"id", "ref", "name", "country", "locality"}).
			AddRow(id, "monza", "Autodromo Nazionale di Monza", strPtr("Italy"), strPtr("Monza")))

	repo := circuit.New(mock)
	got, err := repo.GetByRef(context.Background(), "monza")

	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Autodromo Nazionale di Monza", got.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_GetByRef_NotFound(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, ref, name, country, locality FROM circuits WHERE ref = \$1`).
		WithArgs("nowhere").
		WillReturnError(pgx.ErrNoRows)

	repo := circuit.New(mock)
	_, err = repo.GetByRef(context.Background(), "nowhere")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound), "want ErrNotFound, got %v", err)
	require.NoError(t, mock.ExpectationsWereMet())
}
