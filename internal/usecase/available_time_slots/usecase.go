package available_time_slots

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/availability"
)

// UseCase use case для получения свободных слотов мастера (ручной режим)
type UseCase struct {
	calculator   SlotCalculator
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(calculator SlotCalculator, timeProvider TimeProvider, logger Logger) *UseCase {
	return &UseCase{
		calculator:   calculator,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute выполняет use case получения свободных слотов.
// Пустой список - штатный результат (мастер не работает или занят).
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("AvailableTimeSlots: beautician=%d, duration=%d, date=%s",
		req.BeauticianID, req.TotalDuration, req.Date.Format(domain.DateFormat))

	now := uc.timeProvider.Now()
	if err := validateRequest(req, now); err != nil {
		uc.logger.Warn("AvailableTimeSlots: validation failed: %v", err)
		return nil, err
	}

	slots, err := uc.calculator.Calculate(ctx, req.BeauticianID, req.Date, req.TotalDuration)
	if err != nil {
		uc.logger.Error("AvailableTimeSlots: failed to calculate slots for beautician=%d: %v", req.BeauticianID, err)
		return nil, fmt.Errorf("%w: failed to calculate slots: %v", ErrInternal, err)
	}

	if from, ok := availability.StartFloor(req.Date, now); ok {
		slots = availability.DropBefore(slots, from)
	}

	resp := &Response{
		BeauticianID: req.BeauticianID,
		Date:         req.Date,
		Slots:        make([]Slot, 0, len(slots)),
	}
	for _, s := range slots {
		resp.Slots = append(resp.Slots, Slot{ID: s.ID(), StartTime: s.StartTime, EndTime: s.EndTime})
	}

	uc.logger.Info("AvailableTimeSlots: found %d slots", len(resp.Slots))
	return resp, nil
}
