package driver_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitwall/f1-backend/internal/adapter/postgres/driver"
	"github.com/pitwall/f1-backend/internal/domain"
)

func TestRepo_Upsert_CoalescesNullableFields(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	teamID := uuid.New()
	want := uuid.New()

	// nationality and team_id use COALESCE on conflict: an ingest that lacks
	// them must not erase values an earlier session established.
	mock.ExpectQuery(`ON CONFLICT \(code\) DO UPDATE SET\s+name = EXCLUDED\.name,\s+nationality = COALESCE\(EXCLUDED\.nationality, drivers\.nationality\),\s+team_id = COALESCE\(EXCLUDED\.team_id, drivers\.team_id\)`).
		WithArgs(pgxmock.AnyArg(), "VER", "Max Verstappen", (*string)(nil), &teamID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(want))

	repo := driver.New(mock)
	got, err := repo.Upsert(context.Background(), domain.Driver{
		Code:   "VER",
		Name:   "Max Verstappen",
		TeamID: &teamID,
	})

	require.NoError(t, err)
	assert.Equal(t, want, got)
	require.NoError(t, mock.ExpectationsWereMet())
}
