package catalog

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_GetServicesByIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM services WHERE id IN ($1,$2) ORDER BY id ASC")).
		WithArgs(int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "duration_minutes", "price", "category_id", "active"}).
			AddRow(int64(1), "Manicure", 30, 25.0, int64(3), true).
			AddRow(int64(2), "Pedicure", 45, 35.5, nil, false))

	services, err := NewRepository(db).GetServicesByIDs(context.Background(), []int64{1, 2})
	require.NoError(t, err)
	require.Len(t, services, 2)
	assert.Equal(t, "Manicure", services[0].Name)
	assert.Equal(t, 30, services[0].DurationMinutes)
	require.NotNil(t, services[0].CategoryID)
	assert.Equal(t, int64(3), *services[0].CategoryID)
	assert.Nil(t, services[1].CategoryID)
	assert.False(t, services[1].Active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListQualifiedBeauticianIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT beautician_id FROM service_beauticians WHERE service_id IN ($1,$2) GROUP BY beautician_id HAVING COUNT(DISTINCT service_id) = $3 ORDER BY beautician_id ASC")).
		WithArgs(int64(1), int64(2), 2).
		WillReturnRows(sqlmock.NewRows([]string{"beautician_id"}).AddRow(int64(10)).AddRow(int64(30)))

	ids, err := repo.ListQualifiedBeauticianIDs(context.Background(), []int64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 30}, ids)

	ids, err = repo.ListQualifiedBeauticianIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, ids)

	mock.ExpectQuery("FROM service_beauticians").WillReturnError(errors.New("timeout"))
	_, err = repo.ListQualifiedBeauticianIDs(context.Background(), []int64{1})
	assert.ErrorIs(t, err, ErrExecQuery)

	assert.NoError(t, mock.ExpectationsWereMet())
}
