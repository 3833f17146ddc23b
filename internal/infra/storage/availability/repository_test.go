package availability

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

func TestRepository_ListByBeauticianAndDay(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM beautician_availability WHERE beautician_id = $1 AND day_of_week = $2 ORDER BY start_time ASC")).
		WithArgs(int64(7), 1).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(1), int64(7), 1, "09:00:00", "12:00:00").
			AddRow(int64(2), int64(7), 1, "13:00:00", "17:00:00"))

	rows, err := NewRepository(db).ListByBeauticianAndDay(context.Background(), 7, domain.Monday)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, domain.Monday, rows[0].DayOfWeek)
	assert.Equal(t, "12:00", rows[0].EndTime.String())
	assert.Equal(t, "13:00", rows[1].StartTime.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ReplaceDay(t *testing.T) {
	windows := []domain.TimeWindow{
		{Start: types.MustTimeString("09:00"), End: types.MustTimeString("12:00")},
		{Start: types.MustTimeString("14:00"), End: types.MustTimeString("18:00")},
	}

	t.Run("replaces windows", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("DELETE FROM beautician_availability").
			WithArgs(int64(7), 3).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO beautician_availability").
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(int64(5), int64(7), 3, "09:00:00", "12:00:00").
				AddRow(int64(6), int64(7), 3, "14:00:00", "18:00:00"))

		saved, err := NewRepository(db).ReplaceDay(context.Background(), 7, domain.Wednesday, windows)
		require.NoError(t, err)
		assert.Len(t, saved, 2)
		assert.Equal(t, int64(6), saved[1].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty day only deletes", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("DELETE FROM beautician_availability").
			WillReturnResult(sqlmock.NewResult(0, 2))

		saved, err := NewRepository(db).ReplaceDay(context.Background(), 7, domain.Sunday, nil)
		require.NoError(t, err)
		assert.Empty(t, saved)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("overlap rejected by constraint", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("DELETE FROM beautician_availability").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("INSERT INTO beautician_availability").
			WillReturnError(&pq.Error{Code: "23P01"})

		_, err = NewRepository(db).ReplaceDay(context.Background(), 7, domain.Monday, windows)
		assert.ErrorIs(t, err, ErrOverlap)
	})
}
