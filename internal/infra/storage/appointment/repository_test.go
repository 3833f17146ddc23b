package appointment

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

var monday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

func appointmentRow(mock sqlmock.Sqlmock) *sqlmock.Rows {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	return mock.NewRows(columns).AddRow(
		int64(1), int64(42), int64(7), nil, monday, "09:00:00", "09:30:00", "SCHEDULED",
		"{1,2}", "Jane", "jane@example.com", 55.0, nil, nil, nil, now, now,
	)
}

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	a := &domain.Appointment{
		CustomerID:   42,
		BeauticianID: ptr.Ptr(int64(7)),
		Date:         monday,
		StartTime:    types.MustTimeString("09:00"),
		EndTime:      types.MustTimeString("09:30"),
		Status:       domain.StatusScheduled,
		ServiceIDs:   []int64{1, 2},
		Name:         "Jane",
		Email:        "jane@example.com",
		TotalPrice:   55,
	}

	now := time.Now()
	mock.ExpectQuery("INSERT INTO appointments").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(10), now, now))

	created, err := repo.Create(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, int64(10), created.ID)
	assert.Equal(t, now, created.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_ExclusionViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO appointments").
		WillReturnError(&pq.Error{Code: "23P01", Message: "conflicting key value violates exclusion constraint"})

	_, err = NewRepository(db).Create(context.Background(), &domain.Appointment{
		BeauticianID: ptr.Ptr(int64(7)),
		Date:         monday,
		StartTime:    types.MustTimeString("09:00"),
		EndTime:      types.MustTimeString("09:30"),
		Status:       domain.StatusScheduled,
		ServiceIDs:   []int64{1},
	})
	assert.ErrorIs(t, err, ErrOverlap)
}

func TestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM appointments WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(appointmentRow(mock))

	a, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(42), a.CustomerID)
	require.NotNil(t, a.BeauticianID)
	assert.Equal(t, int64(7), *a.BeauticianID)
	assert.Nil(t, a.BranchID)
	assert.Equal(t, "09:00", a.StartTime.String())
	assert.Equal(t, "09:30", a.EndTime.String())
	assert.Equal(t, domain.StatusScheduled, a.Status)
	assert.Equal(t, []int64{1, 2}, a.ServiceIDs)
	assert.Nil(t, a.Notes)

	mock.ExpectQuery("FROM appointments").
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(columns))

	_, err = repo.GetByID(context.Background(), 2)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListActiveByBeauticianAndDate(t *testing.T) {
	t.Run("without transaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`status <> \$3 ORDER BY start_time ASC$`).
			WithArgs(int64(7), "2026-10-19", domain.StatusCancelled).
			WillReturnRows(appointmentRow(mock))

		list, err := NewRepository(db).ListActiveByBeauticianAndDate(context.Background(), 7, monday)
		require.NoError(t, err)
		assert.Len(t, list, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("inside transaction rows are locked", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`ORDER BY start_time ASC FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows(columns))
		mock.ExpectRollback()

		tx, err := db.Begin()
		require.NoError(t, err)
		ctx := dbmetrics.WithTx(context.Background(), tx)

		list, err := NewRepository(db).ListActiveByBeauticianAndDate(ctx, 7, monday)
		require.NoError(t, err)
		assert.Empty(t, list)
		require.NoError(t, tx.Rollback())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_LockBeauticianDay(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	err = repo.LockBeauticianDay(context.Background(), 7, monday)
	assert.ErrorIs(t, err, ErrTransaction)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock(hashtextextended($1, 0))")).
		WithArgs("appointment:7:2026-10-19").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, repo.LockBeauticianDay(dbmetrics.WithTx(context.Background(), tx), 7, monday))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Cancel(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectExec("UPDATE appointments SET status = \\$1, cancellation_reason = \\$2, cancelled_at = NOW\\(\\)").
		WithArgs(domain.StatusCancelled, "changed plans", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Cancel(context.Background(), 1, ptr.Ptr("changed plans")))

	mock.ExpectExec("UPDATE appointments").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Cancel(context.Background(), 2, nil), ErrAppointmentNotFound)

	mock.ExpectExec("UPDATE appointments").
		WillReturnError(errors.New("connection reset"))
	assert.ErrorIs(t, repo.UpdateStatus(context.Background(), 3, domain.StatusConfirmed), ErrExecQuery)

	assert.NoError(t, mock.ExpectationsWereMet())
}
