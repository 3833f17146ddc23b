package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Calculator калькулятор свободных слотов мастера.
//
// Политика нарезки: все начала с шагом stepMinutes от начала свободного окна
// (stepMinutes = 0 - только самое раннее начало в окне). Один и тот же
// экземпляр используется и для ручного выбора слота, и для умного бронирования.
type Calculator struct {
	availabilityRepo AvailabilityRepository
	appointmentRepo  AppointmentRepository
	stepMinutes      int
	logger           Logger
}

// NewCalculator создает калькулятор
func NewCalculator(
	availabilityRepo AvailabilityRepository,
	appointmentRepo AppointmentRepository,
	stepMinutes int,
	logger Logger,
) *Calculator {
	if stepMinutes < 0 {
		stepMinutes = 0
	}
	return &Calculator{
		availabilityRepo: availabilityRepo,
		appointmentRepo:  appointmentRepo,
		stepMinutes:      stepMinutes,
		logger:           logger,
	}
}

// StepMinutes шаг нарезки слотов
func (c *Calculator) StepMinutes() int {
	return c.stepMinutes
}

// Calculate возвращает упорядоченный список свободных слотов мастера на дату.
// Если в шаблоне нет строк на этот день недели - пустой список.
func (c *Calculator) Calculate(ctx context.Context, beauticianID int64, date time.Time, durationMinutes int) ([]domain.Slot, error) {
	if durationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}
	if beauticianID <= 0 {
		return nil, fmt.Errorf("%w: beauticianID must be positive", ErrInvalidInput)
	}

	day := domain.DayOfWeekFromDate(date)
	template, err := c.availabilityRepo.ListByBeauticianAndDay(ctx, beauticianID, day)
	if err != nil {
		c.logger.Error("Calculate: failed to get availability for beautician=%d, day=%s: %v", beauticianID, day, err)
		return nil, fmt.Errorf("%w: failed to get availability: %v", ErrInternal, err)
	}
	if len(template) == 0 {
		return []domain.Slot{}, nil
	}

	appointments, err := c.appointmentRepo.ListActiveByBeauticianAndDate(ctx, beauticianID, date)
	if err != nil {
		c.logger.Error("Calculate: failed to get appointments for beautician=%d, date=%s: %v",
			beauticianID, date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	return c.SlotsFrom(template, appointments, durationMinutes), nil
}

// SlotsFrom чистая часть Calculate: шаблон дня минус записи
func (c *Calculator) SlotsFrom(template []domain.BeauticianAvailability, appointments []*domain.Appointment, durationMinutes int) []domain.Slot {
	free := FreeWindows(TemplateWindows(template), BusyWindows(appointments))
	return BuildSlots(free, durationMinutes, c.stepMinutes)
}

// CheckSlot проверяет конкретный слот, выбранный вручную:
// он должен целиком лежать в окне шаблона и не пересекаться с активными записями.
func (c *Calculator) CheckSlot(
	template []domain.BeauticianAvailability,
	appointments []*domain.Appointment,
	start types.TimeString,
	durationMinutes int,
) (domain.Slot, error) {
	if durationMinutes <= 0 {
		return domain.Slot{}, ErrInvalidDuration
	}

	end, ok := slotEnd(start, durationMinutes)
	if !ok {
		return domain.Slot{}, ErrOutsideWorkingHours
	}
	slot := domain.Slot{StartTime: start, EndTime: end}

	if !FitsTemplate(TemplateWindows(template), slot.Window()) {
		return domain.Slot{}, ErrOutsideWorkingHours
	}
	if OverlapsAny(BusyWindows(appointments), slot.Window()) {
		return domain.Slot{}, ErrSlotTaken
	}

	return slot, nil
}
