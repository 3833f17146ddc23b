package available_beauticians

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/matcher"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeMatcher struct {
	result *matcher.Result
	err    error
}

func (f *fakeMatcher) Match(context.Context, *matcher.Request) (*matcher.Result, error) {
	return f.result, f.err
}

var (
	now    = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	monday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
)

func TestUseCase_Execute(t *testing.T) {
	m := &fakeMatcher{result: &matcher.Result{
		TotalDuration: 30,
		TotalPrice:    25,
		Candidates: []matcher.Candidate{
			{
				Beautician: &domain.Beautician{ID: 1, Email: "anna@salon.test"},
				Slots:      []domain.Slot{{StartTime: types.MustTimeString("09:00"), EndTime: types.MustTimeString("09:30")}},
			},
			{
				Beautician: &domain.Beautician{ID: 2},
				Slots:      []domain.Slot{{StartTime: types.MustTimeString("10:00"), EndTime: types.MustTimeString("10:30")}},
			},
		},
	}}

	resp, err := NewUseCase(m, 5, fixedClock{now}, logger.NewNop()).
		Execute(context.Background(), &Request{ServiceIDs: []int64{1}, Date: monday})
	require.NoError(t, err)
	require.Len(t, resp.Beauticians, 2)
	assert.Equal(t, "anna@salon.test", resp.Beauticians[0].Name)
	assert.Equal(t, "#2", resp.Beauticians[1].Name)
	assert.Equal(t, "10:00-10:30", resp.Beauticians[1].Slots[0].ID())
	assert.Equal(t, 30, resp.TotalDuration)
}

func TestUseCase_Execute_Errors(t *testing.T) {
	uc := func(err error) *UseCase {
		return NewUseCase(&fakeMatcher{err: err}, 5, fixedClock{now}, logger.NewNop())
	}

	_, err := uc(matcher.ErrNoQualifiedBeautician).Execute(context.Background(), &Request{ServiceIDs: []int64{1}, Date: monday})
	assert.ErrorIs(t, err, ErrNoQualifiedBeautician)

	_, err = uc(matcher.ErrNoAvailability).Execute(context.Background(), &Request{ServiceIDs: []int64{1}, Date: monday})
	assert.ErrorIs(t, err, ErrNoAvailability)

	_, err = uc(nil).Execute(context.Background(), &Request{ServiceIDs: []int64{1}, Date: monday.AddDate(0, 0, -10)})
	assert.ErrorIs(t, err, ErrInvalidDate)
}
