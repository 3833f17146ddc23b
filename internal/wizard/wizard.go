package wizard

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/bookingapi"
)

const (
	msgSelectService     = "выберите хотя бы одну услугу"
	msgSelectMode        = "выберите режим записи"
	msgSelectBeautician  = "выберите мастера"
	msgUnknownBeautician = "выбранный мастер недоступен, обновите список"
	msgSelectDate        = "выберите дату"
	msgDateInPast        = "нельзя записаться на прошедшую дату"
	msgNoRecommendation  = "дождитесь подбора мастера и времени"
	msgSelectSlot        = "выберите время"
	msgUnknownSlot       = "выбранное время больше недоступно, обновите список"
	msgEnterName         = "укажите имя"
	msgInvalidEmail      = "укажите корректный email"
	msgMissingCustomer   = "не удалось определить клиента"
	msgSlotDurationDrift = "длительность услуг изменилась, выберите время заново"
)

type queryKind int

const (
	queryRecommendation queryKind = iota
	queryBeauticians
	querySlots
	queryKinds
)

// Wizard пошаговая запись клиента:
// SelectServices → SelectMode → SelectLocation → SelectSchedule → EnterDetails → Confirm.
//
// В manual дата выбирается вместе с филиалом на шаге SelectLocation: список
// свободных мастеров строится на дату, а мастер выбирается только из этого списка.
//
// Превью (Refresh*) блокирующие и безопасны для вызова из отдельных горутин.
// Для каждого вида превью действует правило "побеждает последний запрос":
// новый запрос отменяет предыдущий, а результат устаревшего запроса отбрасывается
// с ErrSuperseded, даже если пришел позже. Изменение входных данных превью
// сбрасывает его закешированный результат.
type Wizard struct {
	api          BookingAPI
	customerID   int64
	timeProvider TimeProvider
	logger       Logger

	mu             sync.Mutex
	step           Step
	draft          Draft
	recommendation *bookingapi.Recommendation
	beauticians    []bookingapi.Beautician
	slots          []bookingapi.Slot
	closed         bool
	submitting     bool

	seq    [queryKinds]uint64
	cancel [queryKinds]context.CancelFunc
}

// New создает мастер записи от имени клиента customerID
func New(api BookingAPI, customerID int64, timeProvider TimeProvider, logger Logger) *Wizard {
	return &Wizard{
		api:          api,
		customerID:   customerID,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Step текущий шаг
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Closed true после успешной записи или отмены
func (w *Wizard) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// Draft копия введенных данных
func (w *Wizard) Draft() Draft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft.clone()
}

// Recommendation последняя актуальная рекомендация (auto) или nil
func (w *Wizard) Recommendation() *bookingapi.Recommendation {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.recommendation == nil {
		return nil
	}
	rec := *w.recommendation
	return &rec
}

// Beauticians последний актуальный список свободных мастеров
func (w *Wizard) Beauticians() []bookingapi.Beautician {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]bookingapi.Beautician(nil), w.beauticians...)
}

// Slots последний актуальный список слотов выбранного мастера (manual)
func (w *Wizard) Slots() []bookingapi.Slot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]bookingapi.Slot(nil), w.slots...)
}

// SetServices задает набор услуг. Сбрасывает все превью и выбранный слот.
func (w *Wizard) SetServices(services []*domain.Service) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}

	w.draft.Services = append([]*domain.Service(nil), services...)
	w.draft.SlotID = ""
	w.invalidate(queryRecommendation, queryBeauticians, querySlots)
	return nil
}

// SetMode выбирает режим записи
func (w *Wizard) SetMode(mode Mode) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if w.draft.Mode == mode {
		return nil
	}

	w.draft.Mode = mode
	w.draft.SlotID = ""
	w.invalidate(queryRecommendation, querySlots)
	return nil
}

// SetBranch задает филиал, nil - любой
func (w *Wizard) SetBranch(branchID *int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}

	if branchID != nil {
		id := *branchID
		branchID = &id
	}
	w.draft.BranchID = branchID
	w.invalidate(queryRecommendation, queryBeauticians)
	return nil
}

// SetBeautician выбирает мастера из последнего полученного списка (manual)
func (w *Wizard) SetBeautician(beauticianID int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if w.draft.BeauticianID != nil && *w.draft.BeauticianID == beauticianID {
		return nil
	}
	if !w.listed(beauticianID) {
		return &ValidationError{Field: "beautician", Message: msgUnknownBeautician}
	}

	w.draft.BeauticianID = &beauticianID
	w.draft.SlotID = ""
	w.invalidate(querySlots)
	return nil
}

// SetDate задает дату записи. Сбрасывает все превью и выбранный слот.
func (w *Wizard) SetDate(date time.Time) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}

	w.draft.Date = date
	w.draft.SlotID = ""
	w.invalidate(queryRecommendation, queryBeauticians, querySlots)
	return nil
}

// SelectSlot выбирает слот из последнего полученного списка (manual)
func (w *Wizard) SelectSlot(slotID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}

	for _, s := range w.slots {
		if s.ID == slotID {
			w.draft.SlotID = slotID
			return nil
		}
	}
	return &ValidationError{Field: "slot", Message: msgUnknownSlot}
}

// SetDetails задает контактные данные клиента
func (w *Wizard) SetDetails(name, email string, notes *string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}

	w.draft.Name = strings.TrimSpace(name)
	w.draft.Email = strings.TrimSpace(email)
	w.draft.Notes = notes
	return nil
}

// Next переходит на следующий шаг, если выполнено условие текущего
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if w.step == StepConfirm {
		return ErrLastStep
	}

	if err := w.guard(w.step); err != nil {
		return err
	}

	w.step++
	return nil
}

// Back возвращает на предыдущий шаг. Незавершенные превью отменяются,
// их результаты будут отброшены.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if w.step == StepSelectServices {
		return ErrFirstStep
	}

	for kind := queryKind(0); kind < queryKinds; kind++ {
		if w.cancel[kind] != nil {
			w.abort(kind)
		}
	}

	w.step--
	return nil
}

// Cancel закрывает мастер без побочных эффектов
func (w *Wizard) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.reset()
	w.closed = true
}

// guard условие выхода с шага
func (w *Wizard) guard(step Step) error {
	d := &w.draft

	switch step {
	case StepSelectServices:
		if len(d.Services) == 0 {
			return &ValidationError{Field: "services", Message: msgSelectService}
		}

	case StepSelectMode:
		if !d.Mode.IsValid() {
			return &ValidationError{Field: "mode", Message: msgSelectMode}
		}

	case StepSelectLocation:
		// В auto филиал необязателен
		if d.Mode != ModeManual {
			break
		}
		if err := w.dateGuard(); err != nil {
			return err
		}
		if d.BeauticianID == nil {
			return &ValidationError{Field: "beautician", Message: msgSelectBeautician}
		}

	case StepSelectSchedule:
		if err := w.dateGuard(); err != nil {
			return err
		}
		if d.Mode == ModeAuto && w.recommendation == nil {
			return &ValidationError{Field: "recommendation", Message: msgNoRecommendation}
		}
		if d.Mode == ModeManual && d.SlotID == "" {
			return &ValidationError{Field: "slot", Message: msgSelectSlot}
		}

	case StepEnterDetails:
		if d.Name == "" {
			return &ValidationError{Field: "name", Message: msgEnterName}
		}
		if !domain.IsValidEmail(d.Email) {
			return &ValidationError{Field: "email", Message: msgInvalidEmail}
		}
	}

	return nil
}

func (w *Wizard) dateGuard() error {
	if w.draft.Date.IsZero() {
		return &ValidationError{Field: "date", Message: msgSelectDate}
	}
	if domain.IsDateInPast(w.draft.Date, w.timeProvider.Now()) {
		return &ValidationError{Field: "date", Message: msgDateInPast}
	}
	return nil
}

// listed true, если мастер есть в последнем списке свободных
func (w *Wizard) listed(beauticianID int64) bool {
	for _, b := range w.beauticians {
		if b.ID == beauticianID {
			return true
		}
	}
	return false
}

// reset возвращает мастер в начальное состояние, отменяя все превью
func (w *Wizard) reset() {
	w.invalidate(queryRecommendation, queryBeauticians, querySlots)
	w.step = StepSelectServices
	w.draft = Draft{}
}

// invalidate отменяет незавершенные превью указанных видов и сбрасывает их результаты
func (w *Wizard) invalidate(kinds ...queryKind) {
	for _, kind := range kinds {
		w.abort(kind)
		switch kind {
		case queryRecommendation:
			w.recommendation = nil
		case queryBeauticians:
			w.beauticians = nil
		case querySlots:
			w.slots = nil
		}
	}
}

// abort делает текущий запрос вида kind устаревшим
func (w *Wizard) abort(kind queryKind) {
	if w.cancel[kind] != nil {
		w.cancel[kind]()
		w.cancel[kind] = nil
	}
	w.seq[kind]++
}
