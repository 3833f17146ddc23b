package smart_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SalonBooking/internal/service/availability"
	"github.com/m04kA/SMC-SalonBooking/internal/service/matcher"
	"github.com/m04kA/SMC-SalonBooking/internal/service/selector"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/txmanager"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

var smartBookingTracer = otel.Tracer("salonbooking.internal.usecase.smart_booking")

// UseCase умное бронирование: сервер сам подбирает мастера и слот и атомарно создает запись
type UseCase struct {
	matcher          Matcher
	availabilityRepo AvailabilityRepository
	appointmentRepo  AppointmentRepository
	planner          SlotPlanner
	txManager        TransactionManager
	preview          PreviewInvalidator
	metrics          Metrics
	maxServices      int
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	m Matcher,
	availabilityRepo AvailabilityRepository,
	appointmentRepo AppointmentRepository,
	planner SlotPlanner,
	txManager TransactionManager,
	preview PreviewInvalidator,
	metrics Metrics,
	maxServices int,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		matcher:          m,
		availabilityRepo: availabilityRepo,
		appointmentRepo:  appointmentRepo,
		planner:          planner,
		txManager:        txManager,
		preview:          preview,
		metrics:          metrics,
		maxServices:      maxServices,
		timeProvider:     timeProvider,
		logger:           logger,
	}
}

// Execute выполняет умное бронирование.
//
// Кандидаты ранжируются без транзакции (самый ранний слот, затем меньший ID).
// Для каждого кандидата по порядку: блокировка (мастер, дата), повторное чтение
// его записей, пересчет слотов и вставка в самый ранний оставшийся слот.
// Если кандидаты были, но после блокировки ни у кого не осталось слота - ErrConflict.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	ctx, span := smartBookingTracer.Start(ctx, "smart_booking.execute")
	defer span.End()

	uc.logger.Info("SmartBooking: customer=%d, services=%v, date=%s",
		req.CustomerID, req.ServiceIDs, req.Date.Format(domain.DateFormat))

	now := uc.timeProvider.Now()
	if err := validateRequest(req, uc.maxServices, now); err != nil {
		uc.logger.Warn("SmartBooking: validation failed: %v", err)
		uc.metrics.RecordBooking(metrics.ModeSmart, metrics.OutcomeInvalid)
		return nil, err
	}

	mreq := &matcher.Request{ServiceIDs: req.ServiceIDs, Date: req.Date, BranchID: req.BranchID}
	if from, ok := availability.StartFloor(req.Date, now); ok {
		mreq.NotBefore = &from
	}

	res, err := uc.matcher.Match(ctx, mreq)
	if err != nil {
		err = uc.mapMatchError(err)
		span.RecordError(err)
		return nil, err
	}

	pending := selector.Rank(res.Candidates)
	span.SetAttributes(attribute.Int("salon.candidates", len(pending)))
	total := len(pending)

	for len(pending) > 0 {
		candidate := pending[0]
		var rival *matcher.Candidate
		if len(pending) > 1 {
			rival = &pending[1]
		}

		created, current, err := uc.commit(ctx, candidate.Beautician.ID, req, res, mreq.NotBefore, rival)
		if errors.Is(err, errSlotGone) {
			uc.logger.Info("SmartBooking: beautician=%d lost all slots on %s, trying next candidate",
				candidate.Beautician.ID, req.Date.Format(domain.DateFormat))
			pending = pending[1:]
			continue
		}
		if errors.Is(err, errOutranked) {
			// ранний слот мастера заняли, порядок кандидатов пересчитывается по свежим данным
			uc.logger.Info("SmartBooking: beautician=%d now starts at %s, re-ranking candidates",
				candidate.Beautician.ID, current[0].StartTime)
			pending[0].Slots = current
			pending = selector.Rank(pending)
			continue
		}
		if err != nil {
			uc.logger.Error("SmartBooking: failed to commit for beautician=%d: %v", candidate.Beautician.ID, err)
			uc.metrics.RecordBooking(metrics.ModeSmart, metrics.OutcomeError)
			span.RecordError(err)
			return nil, err
		}

		uc.preview.Invalidate(ctx, req.Date)
		uc.metrics.RecordBooking(metrics.ModeSmart, metrics.OutcomeCreated)
		uc.logger.Info("SmartBooking: created appointment id=%d, beautician=%d, %s-%s",
			created.ID, candidate.Beautician.ID, created.StartTime, created.EndTime)

		return toResponse(created, domain.BeauticianDisplayName(candidate.Beautician)), nil
	}

	uc.logger.Warn("SmartBooking: all %d candidates were taken before commit", total)
	uc.metrics.RecordBooking(metrics.ModeSmart, metrics.OutcomeConflict)
	span.RecordError(ErrConflict)
	return nil, ErrConflict
}

// commit атомарно записывает клиента к мастеру в самый ранний свободный слот.
// Если после пересчета слот мастера начинается позже, чем у rival, запись не создается:
// возвращается errOutranked и актуальные слоты мастера.
func (uc *UseCase) commit(
	ctx context.Context,
	beauticianID int64,
	req *Request,
	res *matcher.Result,
	notBefore *types.TimeString,
	rival *matcher.Candidate,
) (*domain.Appointment, []domain.Slot, error) {
	var (
		created *domain.Appointment
		current []domain.Slot
	)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := uc.appointmentRepo.LockBeauticianDay(txCtx, beauticianID, req.Date); err != nil {
			return fmt.Errorf("%w: failed to lock beautician day: %w", ErrInternal, err)
		}

		template, err := uc.availabilityRepo.ListByBeauticianAndDay(txCtx, beauticianID, domain.DayOfWeekFromDate(req.Date))
		if err != nil {
			return fmt.Errorf("%w: failed to get availability: %w", ErrInternal, err)
		}

		existing, err := uc.appointmentRepo.ListActiveByBeauticianAndDate(txCtx, beauticianID, req.Date)
		if err != nil {
			return fmt.Errorf("%w: failed to get appointments: %w", ErrInternal, err)
		}

		slots := uc.planner.SlotsFrom(template, existing, res.TotalDuration)
		if notBefore != nil {
			slots = availability.DropBefore(slots, *notBefore)
		}
		if len(slots) == 0 {
			return errSlotGone
		}
		if rival != nil && outranks(*rival, beauticianID, slots[0].StartTime) {
			current = slots
			return errOutranked
		}

		appointment := &domain.Appointment{
			CustomerID:   req.CustomerID,
			BeauticianID: &beauticianID,
			BranchID:     req.BranchID,
			Date:         req.Date,
			StartTime:    slots[0].StartTime,
			EndTime:      slots[0].EndTime,
			Status:       domain.StatusScheduled,
			ServiceIDs:   req.ServiceIDs,
			Name:         strings.TrimSpace(req.Name),
			Email:        strings.TrimSpace(req.Email),
			TotalPrice:   res.TotalPrice,
			Notes:        req.Notes,
		}

		created, err = uc.appointmentRepo.Create(txCtx, appointment)
		if errors.Is(err, appointmentRepo.ErrOverlap) {
			return errSlotGone
		}
		if err != nil {
			return fmt.Errorf("%w: failed to create appointment: %w", ErrInternal, err)
		}

		return nil
	})

	if errors.Is(err, txmanager.ErrSerialization) {
		uc.logger.Warn("SmartBooking: serialization retries exhausted for beautician=%d: %v", beauticianID, err)
		return nil, nil, errSlotGone
	}
	if errors.Is(err, errOutranked) {
		return nil, current, err
	}
	if err != nil && !errors.Is(err, errSlotGone) && !errors.Is(err, ErrInternal) {
		return nil, nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	return created, nil, err
}

// outranks true, если rival по ранжированию идет раньше мастера со слотом в start
func outranks(rival matcher.Candidate, beauticianID int64, start types.TimeString) bool {
	slot, ok := rival.EarliestSlot()
	if !ok {
		return false
	}
	if !slot.StartTime.Equal(start) {
		return slot.StartTime.IsBefore(start)
	}
	return rival.Beautician.ID < beauticianID
}

func (uc *UseCase) mapMatchError(err error) error {
	switch {
	case errors.Is(err, matcher.ErrInvalidInput), errors.Is(err, matcher.ErrUnknownService):
		uc.logger.Warn("SmartBooking: invalid request: %v", err)
		uc.metrics.RecordBooking(metrics.ModeSmart, metrics.OutcomeInvalid)
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	case errors.Is(err, matcher.ErrNoQualifiedBeautician):
		uc.metrics.RecordBooking(metrics.ModeSmart, metrics.OutcomeNoQualified)
		return ErrNoQualifiedBeautician
	case errors.Is(err, matcher.ErrNoAvailability):
		uc.metrics.RecordBooking(metrics.ModeSmart, metrics.OutcomeNoAvailability)
		return ErrNoAvailability
	case errors.Is(err, matcher.ErrUpstream):
		uc.logger.Error("SmartBooking: upstream failure: %v", err)
		uc.metrics.RecordBooking(metrics.ModeSmart, metrics.OutcomeError)
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	default:
		uc.logger.Error("SmartBooking: failed to match: %v", err)
		uc.metrics.RecordBooking(metrics.ModeSmart, metrics.OutcomeError)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}

func toResponse(a *domain.Appointment, beauticianName string) *Response {
	return &Response{
		ID:             a.ID,
		CustomerID:     a.CustomerID,
		BeauticianID:   *a.BeauticianID,
		BeauticianName: beauticianName,
		BranchID:       a.BranchID,
		Date:           a.Date,
		StartTime:      a.StartTime,
		EndTime:        a.EndTime,
		Status:         string(a.Status),
		ServiceIDs:     a.ServiceIDs,
		Name:           a.Name,
		Email:          a.Email,
		TotalPrice:     a.TotalPrice,
		Notes:          a.Notes,
		CreatedAt:      a.CreatedAt,
	}
}
