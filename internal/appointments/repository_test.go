package appointments

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func TestListBookedIntervals(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("FROM appointments").
		WithArgs("org-1", "2025-06-09", blockingStatuses).
		WillReturnRows(pgxmock.NewRows([]string{"doctor_id", "start", "end"}).
			AddRow("doc-1", "10:00", "10:30").
			AddRow("doc-2", "11:00", "12:00"))

	repo := NewRepositoryWithDB(mock)
	booked, diags, err := repo.ListBookedIntervals(context.Background(), "org-1", "", "2025-06-09")
	require.NoError(t, err)
	require.Empty(t, diags)
	require.Len(t, booked, 2)
	require.Equal(t, "doc-1", booked[0].ProviderID)
	require.Equal(t, 600, booked[0].Start)
	require.Equal(t, 630, booked[0].End)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListBookedIntervalsSkipsMalformedRows(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("FROM appointments").
		WithArgs("org-1", "2025-06-09", blockingStatuses).
		WillReturnRows(pgxmock.NewRows([]string{"doctor_id", "start", "end"}).
			AddRow("doc-1", "10:00", "10:30").
			AddRow("doc-1", "12:30", "12:00")) // inverted

	repo := NewRepositoryWithDB(mock)
	booked, diags, err := repo.ListBookedIntervals(context.Background(), "org-1", "", "2025-06-09")
	require.NoError(t, err, "one corrupt row must not fail the query")
	require.Len(t, booked, 1)
	require.Len(t, diags, 1)
	require.Equal(t, "doc-1", diags[0].ProviderID)
	require.Contains(t, diags[0].Reason, "appointment skipped")
}

func TestListBookedIntervalsFiltersByDoctor(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("FROM appointments").
		WithArgs("org-1", "2025-06-09", blockingStatuses, "doc-2").
		WillReturnRows(pgxmock.NewRows([]string{"doctor_id", "start", "end"}).
			AddRow("doc-2", "09:00", "09:45"))

	repo := NewRepositoryWithDB(mock)
	booked, _, err := repo.ListBookedIntervals(context.Background(), "org-1", "doc-2", "2025-06-09")
	require.NoError(t, err)
	require.Len(t, booked, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListBookedIntervalsQueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("FROM appointments").
		WithArgs("org-1", "2025-06-09", blockingStatuses).
		WillReturnError(errors.New("timeout"))

	repo := NewRepositoryWithDB(mock)
	_, _, err = repo.ListBookedIntervals(context.Background(), "org-1", "", "2025-06-09")
	require.ErrorContains(t, err, "appointments: list booked intervals")
}

func TestNewRepositoryRequiresPool(t *testing.T) {
	require.Panics(t, func() { NewRepository(nil) })
}
