package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/availability"
	"github.com/m04kA/SMC-SalonBooking/internal/service/matcher"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
	"github.com/m04kA/SMC-SalonBooking/pkg/txmanager"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

var (
	friday = time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)
	monday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeCatalog struct{}

func (fakeCatalog) GetServicesByIDs(_ context.Context, ids []int64) ([]*domain.Service, error) {
	all := map[int64]*domain.Service{
		1: {ID: 1, Name: "Manicure", DurationMinutes: 30, Price: 25, Active: true},
		2: {ID: 2, Name: "Pedicure", DurationMinutes: 45, Price: 35, Active: true},
		3: {ID: 3, Name: "Retired", DurationMinutes: 30, Price: 5, Active: false},
	}
	out := make([]*domain.Service, 0)
	for _, id := range ids {
		if s, ok := all[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeCapability struct {
	mapping map[int64][]int64
}

func (f *fakeCapability) ListQualifiedBeauticianIDs(_ context.Context, serviceIDs []int64) ([]int64, error) {
	out := make([]int64, 0)
	for beautician, offered := range f.mapping {
		set := map[int64]bool{}
		for _, s := range offered {
			set[s] = true
		}
		ok := true
		for _, s := range serviceIDs {
			ok = ok && set[s]
		}
		if ok {
			out = append(out, beautician)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

type fakeDirectory struct {
	err error
}

func (f *fakeDirectory) ListBeauticians(_ context.Context, branchID *int64) ([]*domain.Beautician, error) {
	if f.err != nil {
		return nil, f.err
	}
	all := []*domain.Beautician{
		{ID: 10, FullName: "Anna", BranchID: ptr.Ptr(int64(1))},
		{ID: 20, Username: "bella", BranchID: ptr.Ptr(int64(2))},
	}
	out := make([]*domain.Beautician, 0)
	for _, b := range all {
		if branchID == nil || *b.BranchID == *branchID {
			out = append(out, b)
		}
	}
	return out, nil
}

type memAvailability struct{}

func (memAvailability) ListByBeauticianAndDay(_ context.Context, id int64, day domain.DayOfWeek) ([]domain.BeauticianAvailability, error) {
	if day != domain.Monday {
		return []domain.BeauticianAvailability{}, nil
	}
	return []domain.BeauticianAvailability{{
		BeauticianID: id, DayOfWeek: day,
		StartTime: types.MustTimeString("09:00"), EndTime: types.MustTimeString("12:00"),
	}}, nil
}

type txLocksKey struct{}

type txLocks struct {
	release []func()
}

type memLedger struct {
	mu           sync.Mutex
	dayLocks     sync.Map
	appointments []*domain.Appointment
	createErr    error
}

func (m *memLedger) LockBeauticianDay(ctx context.Context, beauticianID int64, date time.Time) error {
	held, ok := ctx.Value(txLocksKey{}).(*txLocks)
	if !ok {
		return errors.New("lock outside of transaction")
	}
	lock, _ := m.dayLocks.LoadOrStore(fmt.Sprintf("%d:%s", beauticianID, date.Format(domain.DateFormat)), &sync.Mutex{})
	lock.(*sync.Mutex).Lock()
	held.release = append(held.release, lock.(*sync.Mutex).Unlock)
	return nil
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

func (m *memLedger) Create(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	created := *a
	created.ID = int64(len(m.appointments) + 1)
	m.appointments = append(m.appointments, &created)
	return &created, nil
}

type fakeTx struct {
	err error
}

func (f *fakeTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if f.err != nil {
		return f.err
	}
	held := &txLocks{}
	defer func() {
		for _, release := range held.release {
			release()
		}
	}()
	return fn(context.WithValue(ctx, txLocksKey{}, held))
}

type fakeInvalidator struct {
	calls int
}

func (f *fakeInvalidator) Invalidate(context.Context, time.Time) { f.calls++ }

type fakeMetrics struct {
	mu       sync.Mutex
	outcomes []string
}

func (f *fakeMetrics) RecordBooking(mode, outcome string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes = append(f.outcomes, mode+"/"+outcome)
}

type fixture struct {
	directory *fakeDirectory
	ledger    *memLedger
	tx        *fakeTx
	preview   *fakeInvalidator
	metrics   *fakeMetrics
	now       time.Time
}

func newFixture() *fixture {
	return &fixture{
		directory: &fakeDirectory{},
		ledger:    &memLedger{},
		tx:        &fakeTx{},
		preview:   &fakeInvalidator{},
		metrics:   &fakeMetrics{},
		now:       friday,
	}
}

func (f *fixture) useCase() *UseCase {
	log := logger.NewNop()
	capability := &fakeCapability{mapping: map[int64][]int64{10: {1, 2}, 20: {1}}}
	calc := availability.NewCalculator(memAvailability{}, f.ledger, 15, log)
	m := matcher.NewMatcher(fakeCatalog{}, capability, f.directory, calc, 2, log)
	return NewUseCase(m, memAvailability{}, f.ledger, calc, f.tx, f.preview, f.metrics, 5, fixedClock{f.now}, log)
}

func request(beauticianID int64, start string, serviceIDs ...int64) *Request {
	return &Request{
		CustomerID:   7,
		BeauticianID: beauticianID,
		ServiceIDs:   serviceIDs,
		Date:         monday,
		StartTime:    types.MustTimeString(start),
		Name:         "Olga",
		Email:        "olga@example.com",
	}
}

func TestUseCase_Execute(t *testing.T) {
	f := newFixture()

	resp, err := f.useCase().Execute(context.Background(), request(10, "09:30", 1, 2))
	require.NoError(t, err)
	assert.Equal(t, "09:30", resp.StartTime.String())
	assert.Equal(t, "10:45", resp.EndTime.String())
	assert.Equal(t, "Anna", resp.BeauticianName)
	assert.InDelta(t, 60.0, resp.TotalPrice, 0.001)
	assert.Equal(t, string(domain.StatusScheduled), resp.Status)
	assert.Equal(t, 1, f.preview.calls)
	assert.Equal(t, []string{"manual/created"}, f.metrics.outcomes)
}

func TestUseCase_Execute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(f *fixture)
		req     *Request
		want    error
		outcome string
	}{
		{
			name:    "outside working hours",
			req:     request(10, "11:45", 1),
			want:    ErrNoAvailability,
			outcome: "manual/no_availability",
		},
		{
			name: "overlaps existing appointment",
			prepare: func(f *fixture) {
				f.ledger.appointments = append(f.ledger.appointments, &domain.Appointment{
					BeauticianID: ptr.Ptr(int64(10)), Date: monday, Status: domain.StatusConfirmed,
					StartTime: types.MustTimeString("10:00"), EndTime: types.MustTimeString("10:30"),
				})
			},
			req:     request(10, "09:45", 1),
			want:    ErrConflict,
			outcome: "manual/conflict",
		},
		{
			name:    "beautician lacks a service",
			req:     request(20, "09:00", 1, 2),
			want:    ErrNoQualifiedBeautician,
			outcome: "manual/no_qualified",
		},
		{
			name: "beautician works at another branch",
			req: func() *Request {
				r := request(20, "09:00", 1)
				r.BranchID = ptr.Ptr(int64(1))
				return r
			}(),
			want:    ErrNoQualifiedBeautician,
			outcome: "manual/no_qualified",
		},
		{
			name:    "inactive service",
			req:     request(10, "09:00", 3),
			want:    ErrInvalidInput,
			outcome: "manual/invalid",
		},
		{
			name: "start time already passed today",
			prepare: func(f *fixture) {
				f.now = time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
			},
			req:     request(10, "09:30", 1),
			want:    ErrInvalidDate,
			outcome: "manual/invalid",
		},
		{
			name:    "serialization retries exhausted",
			prepare: func(f *fixture) { f.tx.err = txmanager.ErrSerialization },
			req:     request(10, "09:00", 1),
			want:    ErrConflict,
			outcome: "manual/conflict",
		},
		{
			name:    "storage failure",
			prepare: func(f *fixture) { f.ledger.createErr = errors.New("connection reset") },
			req:     request(10, "09:00", 1),
			want:    ErrInternal,
			outcome: "manual/error",
		},
		{
			name: "directory down with branch filter",
			prepare: func(f *fixture) {
				f.directory.err = errors.New("503")
			},
			req: func() *Request {
				r := request(10, "09:00", 1)
				r.BranchID = ptr.Ptr(int64(1))
				return r
			}(),
			want:    ErrUpstream,
			outcome: "manual/error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			if tt.prepare != nil {
				tt.prepare(f)
			}

			_, err := f.useCase().Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, []string{tt.outcome}, f.metrics.outcomes)
			assert.Zero(t, f.preview.calls)
		})
	}
}

func TestUseCase_Execute_DirectoryDownWithoutBranch(t *testing.T) {
	f := newFixture()
	f.directory.err = errors.New("503")

	resp, err := f.useCase().Execute(context.Background(), request(10, "09:00", 1))
	require.NoError(t, err)
	assert.Equal(t, "#10", resp.BeauticianName)
}

func TestUseCase_Execute_SameSlotConcurrently(t *testing.T) {
	f := newFixture()
	uc := f.useCase()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), request(10, "09:00", 1))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrConflict):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, 4, conflicts)
	active, _ := f.ledger.ListActiveByBeauticianAndDate(context.Background(), 10, monday)
	assert.Len(t, active, 1)
}

// Случайные попытки записи (в том числе параллельные и с отменами) никогда
// не оставляют в журнале двух пересекающихся активных записей одного мастера.
func TestUseCase_Execute_RandomAttemptsNeverOverlap(t *testing.T) {
	f := newFixture()
	uc := f.useCase()
	rnd := rand.New(rand.NewSource(7))

	successes := 0
	for round := 0; round < 60; round++ {
		reqs := make([]*Request, 1+rnd.Intn(4))
		for i := range reqs {
			beautician := []int64{10, 20}[rnd.Intn(2)]
			minutes := 8*60 + 30 + 5*rnd.Intn(44) // 08:30..12:05
			reqs[i] = request(beautician, fmt.Sprintf("%02d:%02d", minutes/60, minutes%60), 1)
		}

		errs := make([]error, len(reqs))
		var wg sync.WaitGroup
		for i, req := range reqs {
			wg.Add(1)
			go func(i int, req *Request) {
				defer wg.Done()
				_, errs[i] = uc.Execute(context.Background(), req)
			}(i, req)
		}
		wg.Wait()

		for _, err := range errs {
			if err == nil {
				successes++
				continue
			}
			assert.True(t, errors.Is(err, ErrConflict) || errors.Is(err, ErrNoAvailability), err)
		}

		// иногда отменяем случайную запись, освобождая время
		if rnd.Intn(3) == 0 {
			f.ledger.mu.Lock()
			if n := len(f.ledger.appointments); n > 0 {
				f.ledger.appointments[rnd.Intn(n)].Status = domain.StatusCancelled
			}
			f.ledger.mu.Unlock()
		}
	}
	assert.Positive(t, successes)

	for _, beautician := range []int64{10, 20} {
		active, err := f.ledger.ListActiveByBeauticianAndDate(context.Background(), beautician, monday)
		require.NoError(t, err)
		for i := range active {
			assert.False(t, active[i].StartTime.IsBefore(types.MustTimeString("09:00")), active[i].Window())
			assert.False(t, active[i].EndTime.IsAfter(types.MustTimeString("12:00")), active[i].Window())
			for j := i + 1; j < len(active); j++ {
				assert.False(t, active[i].Window().Overlaps(active[j].Window()),
					"beautician %d: %s overlaps %s", beautician, active[i].Window(), active[j].Window())
			}
		}
	}
}

func TestUseCase_Execute_NameLength(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{name: "at the limit, multibyte", in: strings.Repeat("я", domain.MaxNameLength)},
		{name: "one over the limit", in: strings.Repeat("a", domain.MaxNameLength+1), want: ErrInvalidInput},
		{name: "one over the limit, multibyte", in: strings.Repeat("я", domain.MaxNameLength+1), want: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			req := request(10, "09:00", 1)
			req.Name = tt.in

			_, err := f.useCase().Execute(context.Background(), req)
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, f.ledger.appointments)
		})
	}
}
