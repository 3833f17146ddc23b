package smart_booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SalonBooking/internal/service/availability"
	"github.com/m04kA/SMC-SalonBooking/internal/service/matcher"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
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

type fakeCatalog struct {
	services map[int64]*domain.Service
}

func (f *fakeCatalog) GetServicesByIDs(_ context.Context, ids []int64) ([]*domain.Service, error) {
	out := make([]*domain.Service, 0)
	for _, id := range ids {
		if s, ok := f.services[id]; ok {
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
		matched := 0
		for _, want := range serviceIDs {
			for _, s := range offered {
				if s == want {
					matched++
					break
				}
			}
		}
		if matched == len(serviceIDs) {
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

func (f *fakeDirectory) ListBeauticians(context.Context, *int64) ([]*domain.Beautician, error) {
	return f.beauticians, f.err
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

type txLocksKey struct{}

// txLocks блокировки, взятые внутри одной транзакции
type txLocks struct {
	release []func()
}

// memLedger журнал в памяти с блокировкой (мастер, дата) до конца транзакции
type memLedger struct {
	mu           sync.Mutex
	dayLocks     sync.Map
	appointments []*domain.Appointment
	nextID       int64

	// beforeCreate вызывается внутри транзакции перед вставкой
	beforeCreate func(a *domain.Appointment)
	createErr    error
}

func (m *memLedger) LockBeauticianDay(ctx context.Context, beauticianID int64, date time.Time) error {
	held, ok := ctx.Value(txLocksKey{}).(*txLocks)
	if !ok {
		return errors.New("lock outside of transaction")
	}
	key := fmt.Sprintf("%d:%s", beauticianID, date.Format(domain.DateFormat))
	lock, _ := m.dayLocks.LoadOrStore(key, &sync.Mutex{})
	mu := lock.(*sync.Mutex)
	mu.Lock()
	held.release = append(held.release, mu.Unlock)
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
	if m.beforeCreate != nil {
		m.beforeCreate(a)
	}
	if m.createErr != nil {
		return nil, m.createErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.appointments {
		if existing.IsActive() && *existing.BeauticianID == *a.BeauticianID &&
			domain.SameDay(existing.Date, a.Date) && existing.Window().Overlaps(a.Window()) {
			return nil, appointmentRepo.ErrOverlap
		}
	}
	m.nextID++
	created := *a
	created.ID = m.nextID
	created.CreatedAt = friday
	m.appointments = append(m.appointments, &created)
	return &created, nil
}

func (m *memLedger) insert(beauticianID int64, start, end string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.appointments = append(m.appointments, &domain.Appointment{
		ID: m.nextID, BeauticianID: ptr.Ptr(beauticianID), Date: monday,
		StartTime: types.MustTimeString(start), EndTime: types.MustTimeString(end),
		Status: domain.StatusScheduled,
	})
}

func (m *memLedger) active() []*domain.Appointment {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Appointment, 0)
	for _, a := range m.appointments {
		if a.IsActive() {
			out = append(out, a)
		}
	}
	return out
}

// fakeTx выполняет fn и снимает блокировки, взятые внутри
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
	mu    sync.Mutex
	dates []time.Time
}

func (f *fakeInvalidator) Invalidate(_ context.Context, date time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dates = append(f.dates, date)
}

type fakeMetrics struct {
	mu       sync.Mutex
	outcomes []string
}

func (f *fakeMetrics) RecordBooking(mode, outcome string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes = append(f.outcomes, mode+"/"+outcome)
}

func window(id int64, start, end string) domain.BeauticianAvailability {
	return domain.BeauticianAvailability{
		BeauticianID: id, DayOfWeek: domain.Monday,
		StartTime: types.MustTimeString(start), EndTime: types.MustTimeString(end),
	}
}

type fixture struct {
	catalog    *fakeCatalog
	capability *fakeCapability
	directory  *fakeDirectory
	avail      *memAvailability
	ledger     *memLedger
	tx         *fakeTx
	preview    *fakeInvalidator
	metrics    *fakeMetrics
	now        time.Time

	// afterMatch вызывается после подбора кандидатов, до коммита
	afterMatch func()
}

// hookedMatcher дает изменить журнал между ранжированием и коммитом
type hookedMatcher struct {
	inner Matcher
	after func()
}

func (h *hookedMatcher) Match(ctx context.Context, req *matcher.Request) (*matcher.Result, error) {
	res, err := h.inner.Match(ctx, req)
	if err == nil && h.after != nil {
		h.after()
	}
	return res, err
}

func newFixture() *fixture {
	return &fixture{
		catalog: &fakeCatalog{services: map[int64]*domain.Service{
			1: {ID: 1, Name: "Manicure", DurationMinutes: 30, Price: 25, Active: true},
			2: {ID: 2, Name: "Pedicure", DurationMinutes: 45, Price: 35, Active: true},
			5: {ID: 5, Name: "Laser", DurationMinutes: 30, Price: 90, Active: true},
		}},
		capability: &fakeCapability{mapping: map[int64][]int64{
			10: {1, 2},
			20: {1},
		}},
		directory: &fakeDirectory{beauticians: []*domain.Beautician{
			{ID: 10, FullName: "Anna"},
			{ID: 20, FullName: "Bella"},
		}},
		avail: &memAvailability{rows: []domain.BeauticianAvailability{
			window(10, "09:00", "17:00"),
			window(20, "09:00", "17:00"),
		}},
		ledger:  &memLedger{},
		tx:      &fakeTx{},
		preview: &fakeInvalidator{},
		metrics: &fakeMetrics{},
		now:     friday,
	}
}

func (f *fixture) useCase() *UseCase {
	log := logger.NewNop()
	calc := availability.NewCalculator(f.avail, f.ledger, 15, log)
	var m Matcher = matcher.NewMatcher(f.catalog, f.capability, f.directory, calc, 4, log)
	if f.afterMatch != nil {
		m = &hookedMatcher{inner: m, after: f.afterMatch}
	}
	return NewUseCase(m, f.avail, f.ledger, calc, f.tx, f.preview, f.metrics, 5, fixedClock{f.now}, log)
}

func request(serviceIDs ...int64) *Request {
	return &Request{
		CustomerID: 7,
		ServiceIDs: serviceIDs,
		Date:       monday,
		Name:       "  Olga  ",
		Email:      "olga@example.com",
		Notes:      ptr.Ptr("first visit"),
	}
}

func TestUseCase_Execute(t *testing.T) {
	f := newFixture()

	resp, err := f.useCase().Execute(context.Background(), request(1))
	require.NoError(t, err)

	// оба мастера свободны с 09:00, выигрывает меньший ID
	assert.Equal(t, int64(10), resp.BeauticianID)
	assert.Equal(t, "Anna", resp.BeauticianName)
	assert.Equal(t, "09:00", resp.StartTime.String())
	assert.Equal(t, "09:30", resp.EndTime.String())
	assert.Equal(t, string(domain.StatusScheduled), resp.Status)
	assert.Equal(t, "Olga", resp.Name)
	assert.Equal(t, []int64{1}, resp.ServiceIDs)
	assert.InDelta(t, 25.0, resp.TotalPrice, 0.001)
	assert.Equal(t, int64(7), resp.CustomerID)

	assert.Len(t, f.preview.dates, 1)
	assert.Equal(t, []string{"smart/created"}, f.metrics.outcomes)
}

func TestUseCase_Execute_NameAtLimit(t *testing.T) {
	f := newFixture()
	req := request(1)
	req.Name = strings.Repeat("я", domain.MaxNameLength)

	resp, err := f.useCase().Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxNameLength, len([]rune(resp.Name)))
}

func TestUseCase_Execute_ConsecutiveCommits(t *testing.T) {
	f := newFixture()
	f.capability.mapping = map[int64][]int64{10: {1}}
	f.avail.rows = []domain.BeauticianAvailability{window(10, "09:00", "10:00")}
	uc := f.useCase()

	first, err := uc.Execute(context.Background(), request(1))
	require.NoError(t, err)
	assert.Equal(t, "09:00-09:30", first.StartTime.String()+"-"+first.EndTime.String())

	second, err := uc.Execute(context.Background(), request(1))
	require.NoError(t, err)
	assert.Equal(t, "09:30-10:00", second.StartTime.String()+"-"+second.EndTime.String())

	_, err = uc.Execute(context.Background(), request(1))
	assert.ErrorIs(t, err, ErrNoAvailability)
}

func TestUseCase_Execute_NoQualifiedBeautician(t *testing.T) {
	f := newFixture()

	_, err := f.useCase().Execute(context.Background(), request(5))
	assert.ErrorIs(t, err, ErrNoQualifiedBeautician)
	assert.Equal(t, []string{"smart/no_qualified"}, f.metrics.outcomes)
	assert.Empty(t, f.ledger.active())
}

func TestUseCase_Execute_NoAvailability(t *testing.T) {
	f := newFixture()
	f.capability.mapping = map[int64][]int64{10: {1}}
	f.avail.rows = []domain.BeauticianAvailability{window(10, "09:00", "10:00")}
	f.ledger.insert(10, "09:00", "09:45")

	_, err := f.useCase().Execute(context.Background(), request(1))
	assert.ErrorIs(t, err, ErrNoAvailability)
	assert.Equal(t, []string{"smart/no_availability"}, f.metrics.outcomes)
}

func TestUseCase_Execute_FallsBackToNextCandidate(t *testing.T) {
	f := newFixture()
	f.avail.rows = []domain.BeauticianAvailability{
		window(10, "09:00", "09:30"),
		window(20, "10:00", "12:00"),
	}
	// пока мы ранжировали, единственный слот Анны заняли
	f.ledger.beforeCreate = func(a *domain.Appointment) {
		if *a.BeauticianID == 10 {
			f.ledger.beforeCreate = nil
			f.ledger.insert(10, "09:00", "09:30")
		}
	}

	resp, err := f.useCase().Execute(context.Background(), request(1))
	require.NoError(t, err)
	assert.Equal(t, int64(20), resp.BeauticianID)
	assert.Equal(t, "10:00", resp.StartTime.String())
}

// Если ранний слот лучшего мастера заняли после ранжирования, запись идет
// в самый ранний слот по текущим данным среди всех мастеров.
func TestUseCase_Execute_RerankAfterRecompute(t *testing.T) {
	t.Run("other beautician is earlier now", func(t *testing.T) {
		f := newFixture()
		f.afterMatch = func() { f.ledger.insert(10, "09:00", "09:30") }

		resp, err := f.useCase().Execute(context.Background(), request(1))
		require.NoError(t, err)
		assert.Equal(t, int64(20), resp.BeauticianID)
		assert.Equal(t, "09:00", resp.StartTime.String())
		assert.Equal(t, "Bella", resp.BeauticianName)
	})

	t.Run("both shifted, lower id wins again", func(t *testing.T) {
		f := newFixture()
		f.afterMatch = func() {
			f.ledger.insert(10, "09:00", "09:30")
			f.ledger.insert(20, "09:00", "09:30")
		}

		resp, err := f.useCase().Execute(context.Background(), request(1))
		require.NoError(t, err)
		assert.Equal(t, int64(10), resp.BeauticianID)
		assert.Equal(t, "09:30", resp.StartTime.String())
	})

	t.Run("still earliest after shift", func(t *testing.T) {
		f := newFixture()
		f.avail.rows = []domain.BeauticianAvailability{
			window(10, "09:00", "17:00"),
			window(20, "12:00", "17:00"),
		}
		f.afterMatch = func() { f.ledger.insert(10, "09:00", "09:30") }

		resp, err := f.useCase().Execute(context.Background(), request(1))
		require.NoError(t, err)
		assert.Equal(t, int64(10), resp.BeauticianID)
		assert.Equal(t, "09:30", resp.StartTime.String())
		assert.Equal(t, []string{"smart/created"}, f.metrics.outcomes)
	})
}

func TestUseCase_Execute_AllCandidatesGone(t *testing.T) {
	f := newFixture()
	f.capability.mapping = map[int64][]int64{10: {1}}
	f.avail.rows = []domain.BeauticianAvailability{window(10, "09:00", "09:30")}
	f.ledger.createErr = appointmentRepo.ErrOverlap

	_, err := f.useCase().Execute(context.Background(), request(1))
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, []string{"smart/conflict"}, f.metrics.outcomes)
	assert.Empty(t, f.preview.dates)
}

func TestUseCase_Execute_SerializationExhausted(t *testing.T) {
	f := newFixture()
	f.tx.err = fmt.Errorf("%w: retries exhausted", txmanager.ErrSerialization)

	_, err := f.useCase().Execute(context.Background(), request(1))
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUseCase_Execute_StorageFailure(t *testing.T) {
	f := newFixture()
	f.ledger.createErr = errors.New("connection reset")

	_, err := f.useCase().Execute(context.Background(), request(1))
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, []string{"smart/error"}, f.metrics.outcomes)
}

func TestUseCase_Execute_DirectoryDown(t *testing.T) {
	f := newFixture()
	f.directory.err = errors.New("503")
	req := request(1)
	req.BranchID = ptr.Ptr(int64(1))

	_, err := f.useCase().Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestUseCase_Execute_TodaySkipsPastSlots(t *testing.T) {
	f := newFixture()
	f.now = time.Date(2026, 10, 19, 9, 10, 0, 0, time.UTC)

	resp, err := f.useCase().Execute(context.Background(), request(1))
	require.NoError(t, err)
	assert.Equal(t, "09:15", resp.StartTime.String())
}

func TestUseCase_Execute_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Request)
		want   error
	}{
		{name: "no services", mutate: func(r *Request) { r.ServiceIDs = nil }, want: ErrInvalidInput},
		{name: "too many services", mutate: func(r *Request) { r.ServiceIDs = []int64{1, 2, 3, 4, 5, 6} }, want: ErrInvalidInput},
		{name: "blank name", mutate: func(r *Request) { r.Name = "   " }, want: ErrInvalidInput},
		{name: "name over limit", mutate: func(r *Request) { r.Name = strings.Repeat("я", domain.MaxNameLength+1) }, want: ErrInvalidInput},
		{name: "bad email", mutate: func(r *Request) { r.Email = "olga" }, want: ErrInvalidInput},
		{name: "past date", mutate: func(r *Request) { r.Date = friday.AddDate(0, 0, -1) }, want: ErrInvalidDate},
		{name: "unknown service", mutate: func(r *Request) { r.ServiceIDs = []int64{99} }, want: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			req := request(1)
			tt.mutate(req)

			_, err := f.useCase().Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, []string{"smart/invalid"}, f.metrics.outcomes)
		})
	}
}

// Параллельные коммиты не дают пересекающихся записей у одного мастера.
func TestUseCase_Execute_ConcurrentCommits(t *testing.T) {
	t.Run("single slot", func(t *testing.T) {
		f := newFixture()
		f.capability.mapping = map[int64][]int64{10: {1}}
		f.avail.rows = []domain.BeauticianAvailability{window(10, "09:00", "09:30")}
		uc := f.useCase()

		var (
			wg        sync.WaitGroup
			successes int
			failures  []error
			mu        sync.Mutex
		)
		start := make(chan struct{})
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				_, err := uc.Execute(context.Background(), request(1))
				mu.Lock()
				defer mu.Unlock()
				if err == nil {
					successes++
					return
				}
				failures = append(failures, err)
			}()
		}
		close(start)
		wg.Wait()

		assert.Equal(t, 1, successes)
		require.Len(t, failures, 1)
		assert.True(t, errors.Is(failures[0], ErrConflict) || errors.Is(failures[0], ErrNoAvailability), failures[0])
		assert.Len(t, f.ledger.active(), 1)
	})

	t.Run("many customers", func(t *testing.T) {
		f := newFixture()
		f.capability.mapping = map[int64][]int64{10: {1}}
		f.avail.rows = []domain.BeauticianAvailability{window(10, "09:00", "11:00")}
		uc := f.useCase()

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := uc.Execute(context.Background(), request(1))
				if err != nil {
					assert.True(t, errors.Is(err, ErrConflict) || errors.Is(err, ErrNoAvailability), err)
				}
			}()
		}
		wg.Wait()

		booked := f.ledger.active()
		assert.Len(t, booked, 4)
		for i := range booked {
			for j := i + 1; j < len(booked); j++ {
				assert.False(t, booked[i].Window().Overlaps(booked[j].Window()),
					"%s overlaps %s", booked[i].Window(), booked[j].Window())
			}
		}
	})
}

func TestUseCase_Execute_OutcomesAreRecordedOnce(t *testing.T) {
	f := newFixture()
	f.ledger.createErr = appointmentRepo.ErrOverlap

	_, err := f.useCase().Execute(context.Background(), request(1))
	require.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, []string{metrics.ModeSmart + "/" + metrics.OutcomeConflict}, f.metrics.outcomes)
}
