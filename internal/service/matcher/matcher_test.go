package matcher

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/availability"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

var monday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

type fakeCatalog struct {
	services map[int64]*domain.Service
	err      error
}

func (f *fakeCatalog) GetServicesByIDs(_ context.Context, ids []int64) ([]*domain.Service, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*domain.Service, 0)
	for _, id := range ids {
		if s, ok := f.services[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeCapability struct {
	mapping map[int64][]int64 // beautician -> services
}

func (f *fakeCapability) ListQualifiedBeauticianIDs(_ context.Context, serviceIDs []int64) ([]int64, error) {
	out := make([]int64, 0)
	for beautician, offered := range f.mapping {
		set := make(map[int64]bool, len(offered))
		for _, s := range offered {
			set[s] = true
		}
		all := true
		for _, s := range serviceIDs {
			if !set[s] {
				all = false
				break
			}
		}
		if all {
			out = append(out, beautician)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

type fakeDirectory struct {
	beauticians []*domain.Beautician
	err         error
}

func (f *fakeDirectory) ListBeauticians(_ context.Context, branchID *int64) ([]*domain.Beautician, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*domain.Beautician, 0)
	for _, b := range f.beauticians {
		if branchID == nil || (b.BranchID != nil && *b.BranchID == *branchID) {
			out = append(out, b)
		}
	}
	return out, nil
}

type memAvailability struct {
	rows []domain.BeauticianAvailability
}

func (m *memAvailability) ListByBeauticianAndDay(_ context.Context, id int64, day domain.DayOfWeek) ([]domain.BeauticianAvailability, error) {
	out := make([]domain.BeauticianAvailability, 0)
	for _, r := range m.rows {
		if r.BeauticianID == id && r.DayOfWeek == day {
			out = append(out, r)
		}
	}
	return out, nil
}

type memLedger struct {
	mu           sync.Mutex
	appointments []*domain.Appointment
}

func (m *memLedger) ListActiveByBeauticianAndDate(_ context.Context, id int64, date time.Time) ([]*domain.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Appointment, 0)
	for _, a := range m.appointments {
		if a.IsActive() && *a.BeauticianID == id && domain.SameDay(a.Date, date) {
			out = append(out, a)
		}
	}
	return out, nil
}

type failingCalculator struct{}

func (failingCalculator) Calculate(context.Context, int64, time.Time, int) ([]domain.Slot, error) {
	return nil, errors.New("db down")
}

func window(id int64, day domain.DayOfWeek, start, end string) domain.BeauticianAvailability {
	return domain.BeauticianAvailability{
		BeauticianID: id, DayOfWeek: day,
		StartTime: types.MustTimeString(start), EndTime: types.MustTimeString(end),
	}
}

type fixture struct {
	catalog    *fakeCatalog
	capability *fakeCapability
	directory  *fakeDirectory
	avail      *memAvailability
	ledger     *memLedger
}

func newFixture() *fixture {
	return &fixture{
		catalog: &fakeCatalog{services: map[int64]*domain.Service{
			1: {ID: 1, Name: "Manicure", DurationMinutes: 30, Price: 25, Active: true},
			2: {ID: 2, Name: "Pedicure", DurationMinutes: 45, Price: 35, Active: true},
			3: {ID: 3, Name: "Old service", DurationMinutes: 20, Price: 10, Active: false},
			4: {ID: 4, Name: "Massage", DurationMinutes: 60, Price: 50, Active: true},
		}},
		capability: &fakeCapability{mapping: map[int64][]int64{
			10: {1, 2},
			20: {1},
			30: {1, 2},
		}},
		directory: &fakeDirectory{beauticians: []*domain.Beautician{
			{ID: 10, FullName: "Anna", BranchID: ptr.Ptr(int64(1))},
			{ID: 20, FullName: "Bella", BranchID: ptr.Ptr(int64(1))},
			{ID: 30, FullName: "Clara", BranchID: ptr.Ptr(int64(2))},
		}},
		avail: &memAvailability{rows: []domain.BeauticianAvailability{
			window(10, domain.Monday, "09:00", "17:00"),
			window(20, domain.Monday, "09:00", "17:00"),
			window(30, domain.Monday, "12:00", "13:00"),
		}},
		ledger: &memLedger{},
	}
}

func (f *fixture) matcher() *Matcher {
	log := logger.NewNop()
	calc := availability.NewCalculator(f.avail, f.ledger, 15, log)
	return NewMatcher(f.catalog, f.capability, f.directory, calc, 2, log)
}

func beauticianIDs(candidates []Candidate) []int64 {
	out := make([]int64, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.Beautician.ID)
	}
	return out
}

func TestMatcher_Match(t *testing.T) {
	t.Run("all services must be offered", func(t *testing.T) {
		f := newFixture()
		res, err := f.matcher().Match(context.Background(), &Request{ServiceIDs: []int64{1, 2}, Date: monday})
		require.NoError(t, err)
		// Clara тоже квалифицирована, но ее смена короче 75 минут
		assert.Equal(t, []int64{10}, beauticianIDs(res.Candidates))
		assert.Equal(t, 75, res.TotalDuration)
		assert.InDelta(t, 60.0, res.TotalPrice, 0.001)
	})

	t.Run("branch filter", func(t *testing.T) {
		f := newFixture()
		res, err := f.matcher().Match(context.Background(), &Request{ServiceIDs: []int64{1}, Date: monday, BranchID: ptr.Ptr(int64(2))})
		require.NoError(t, err)
		assert.Equal(t, []int64{30}, beauticianIDs(res.Candidates))
	})

	t.Run("qualified beautician without free time is excluded", func(t *testing.T) {
		f := newFixture()
		// Clara работает только час, а услуги 1+2 длятся 75 минут
		res, err := f.matcher().Match(context.Background(), &Request{ServiceIDs: []int64{1, 2}, Date: monday, BranchID: ptr.Ptr(int64(2))})
		assert.Nil(t, res)
		assert.ErrorIs(t, err, ErrNoAvailability)
	})

	t.Run("slots that already started are dropped", func(t *testing.T) {
		f := newFixture()
		from := types.MustTimeString("16:20")
		res, err := f.matcher().Match(context.Background(), &Request{ServiceIDs: []int64{1}, Date: monday, NotBefore: &from})
		require.NoError(t, err)
		assert.Equal(t, []int64{10, 20}, beauticianIDs(res.Candidates))
		for _, c := range res.Candidates {
			require.Len(t, c.Slots, 1)
			assert.Equal(t, "16:30-17:00", c.Slots[0].ID())
		}

		late := types.MustTimeString("16:40")
		_, err = f.matcher().Match(context.Background(), &Request{ServiceIDs: []int64{1}, Date: monday, NotBefore: &late})
		assert.ErrorIs(t, err, ErrNoAvailability)
	})

	t.Run("nobody offers the service", func(t *testing.T) {
		f := newFixture()
		_, err := f.matcher().Match(context.Background(), &Request{ServiceIDs: []int64{4}, Date: monday})
		assert.ErrorIs(t, err, ErrNoQualifiedBeautician)
		assert.NotErrorIs(t, err, ErrNoAvailability)
	})

	t.Run("no free time on that day", func(t *testing.T) {
		f := newFixture()
		_, err := f.matcher().Match(context.Background(), &Request{ServiceIDs: []int64{1}, Date: monday.AddDate(0, 0, 1)})
		assert.ErrorIs(t, err, ErrNoAvailability)
	})

	t.Run("inactive service", func(t *testing.T) {
		f := newFixture()
		_, err := f.matcher().Match(context.Background(), &Request{ServiceIDs: []int64{1, 3}, Date: monday})
		assert.ErrorIs(t, err, ErrUnknownService)
	})

	t.Run("unknown service", func(t *testing.T) {
		f := newFixture()
		_, err := f.matcher().Match(context.Background(), &Request{ServiceIDs: []int64{99}, Date: monday})
		assert.ErrorIs(t, err, ErrUnknownService)
	})

	t.Run("invalid input", func(t *testing.T) {
		m := newFixture().matcher()
		_, err := m.Match(context.Background(), &Request{Date: monday})
		assert.ErrorIs(t, err, ErrInvalidInput)
		_, err = m.Match(context.Background(), &Request{ServiceIDs: []int64{1, 1}, Date: monday})
		assert.ErrorIs(t, err, ErrInvalidInput)
		_, err = m.Match(context.Background(), &Request{ServiceIDs: []int64{1}})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("directory down without branch filter degrades to ids", func(t *testing.T) {
		f := newFixture()
		f.directory.err = errors.New("connection refused")
		res, err := f.matcher().Match(context.Background(), &Request{ServiceIDs: []int64{1}, Date: monday})
		require.NoError(t, err)
		assert.Equal(t, []int64{10, 20, 30}, beauticianIDs(res.Candidates))
		assert.Equal(t, "#10", domain.BeauticianDisplayName(res.Candidates[0].Beautician))
	})

	t.Run("directory down with branch filter", func(t *testing.T) {
		f := newFixture()
		f.directory.err = errors.New("connection refused")
		_, err := f.matcher().Match(context.Background(), &Request{ServiceIDs: []int64{1}, Date: monday, BranchID: ptr.Ptr(int64(1))})
		assert.ErrorIs(t, err, ErrUpstream)
	})

	t.Run("calculator failure", func(t *testing.T) {
		f := newFixture()
		m := NewMatcher(f.catalog, f.capability, f.directory, failingCalculator{}, 0, logger.NewNop())
		_, err := m.Match(context.Background(), &Request{ServiceIDs: []int64{1}, Date: monday})
		assert.ErrorIs(t, err, ErrInternal)
	})
}

func TestMatcher_NeverReturnsUnqualified(t *testing.T) {
	f := newFixture()
	m := f.matcher()

	for _, ids := range [][]int64{{1}, {2}, {1, 2}, {2, 1}} {
		res, err := m.Match(context.Background(), &Request{ServiceIDs: ids, Date: monday})
		require.NoError(t, err)
		for _, c := range res.Candidates {
			offered := map[int64]bool{}
			for _, s := range f.capability.mapping[c.Beautician.ID] {
				offered[s] = true
			}
			for _, id := range ids {
				assert.True(t, offered[id], "beautician %d lacks service %d", c.Beautician.ID, id)
			}
		}
	}
}

func TestMatcher_Qualified(t *testing.T) {
	m := newFixture().matcher()

	got, err := m.Qualified(context.Background(), []int64{1, 2}, nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 30}, beauticianIDs(asCandidates(got)))

	got, err = m.Qualified(context.Background(), []int64{1}, ptr.Ptr(int64(1)))
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 20}, beauticianIDs(asCandidates(got)))

	got, err = m.Qualified(context.Background(), []int64{4}, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func asCandidates(beauticians []*domain.Beautician) []Candidate {
	out := make([]Candidate, 0, len(beauticians))
	for _, b := range beauticians {
		out = append(out, Candidate{Beautician: b})
	}
	return out
}
