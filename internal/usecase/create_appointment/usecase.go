package create_appointment

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
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/txmanager"
)

var createAppointmentTracer = otel.Tracer("salonbooking.internal.usecase.create_appointment")

// UseCase запись к выбранному клиентом мастеру на выбранное время
type UseCase struct {
	matcher          Matcher
	availabilityRepo AvailabilityRepository
	appointmentRepo  AppointmentRepository
	checker          SlotChecker
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
	checker SlotChecker,
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
		checker:          checker,
		txManager:        txManager,
		preview:          preview,
		metrics:          metrics,
		maxServices:      maxServices,
		timeProvider:     timeProvider,
		logger:           logger,
	}
}

// Execute выполняет use case ручной записи.
// Проверка слота и вставка выполняются под блокировкой (мастер, дата).
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	ctx, span := createAppointmentTracer.Start(ctx, "create_appointment.execute")
	defer span.End()
	span.SetAttributes(attribute.Int64("salon.beautician_id", req.BeauticianID))

	uc.logger.Info("CreateAppointment: customer=%d, beautician=%d, services=%v, date=%s, time=%s",
		req.CustomerID, req.BeauticianID, req.ServiceIDs, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.maxServices, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		uc.metrics.RecordBooking(metrics.ModeManual, metrics.OutcomeInvalid)
		return nil, err
	}

	// 2. Услуги: существуют, активны, суммарная длительность и цена
	services, err := uc.matcher.ResolveServices(ctx, req.ServiceIDs)
	if err != nil {
		return nil, uc.mapMatcherError(err)
	}
	duration := domain.TotalDuration(services)
	price := domain.TotalPrice(services)

	// 3. Мастер выполняет все услуги (и работает в указанном филиале)
	beautician, err := uc.findQualified(ctx, req)
	if err != nil {
		return nil, err
	}

	var created *domain.Appointment

	// 4. Блокировка дня мастера, проверка слота и вставка
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := uc.appointmentRepo.LockBeauticianDay(txCtx, req.BeauticianID, req.Date); err != nil {
			return fmt.Errorf("%w: failed to lock beautician day: %w", ErrInternal, err)
		}

		template, err := uc.availabilityRepo.ListByBeauticianAndDay(txCtx, req.BeauticianID, domain.DayOfWeekFromDate(req.Date))
		if err != nil {
			return fmt.Errorf("%w: failed to get availability: %w", ErrInternal, err)
		}

		existing, err := uc.appointmentRepo.ListActiveByBeauticianAndDate(txCtx, req.BeauticianID, req.Date)
		if err != nil {
			return fmt.Errorf("%w: failed to get appointments: %w", ErrInternal, err)
		}

		slot, err := uc.checker.CheckSlot(template, existing, req.StartTime, duration)
		switch {
		case errors.Is(err, availability.ErrOutsideWorkingHours):
			return ErrNoAvailability
		case errors.Is(err, availability.ErrSlotTaken):
			return ErrConflict
		case err != nil:
			return fmt.Errorf("%w: %w", ErrInternal, err)
		}

		created, err = uc.appointmentRepo.Create(txCtx, &domain.Appointment{
			CustomerID:   req.CustomerID,
			BeauticianID: &req.BeauticianID,
			BranchID:     req.BranchID,
			Date:         req.Date,
			StartTime:    slot.StartTime,
			EndTime:      slot.EndTime,
			Status:       domain.StatusScheduled,
			ServiceIDs:   req.ServiceIDs,
			Name:         strings.TrimSpace(req.Name),
			Email:        strings.TrimSpace(req.Email),
			TotalPrice:   price,
			Notes:        req.Notes,
		})
		if errors.Is(err, appointmentRepo.ErrOverlap) {
			return ErrConflict
		}
		if err != nil {
			return fmt.Errorf("%w: failed to create appointment: %w", ErrInternal, err)
		}

		return nil
	})

	switch {
	case err == nil:
	case errors.Is(err, ErrNoAvailability):
		uc.logger.Warn("CreateAppointment: %s is outside working hours of beautician=%d", req.StartTime, req.BeauticianID)
		uc.metrics.RecordBooking(metrics.ModeManual, metrics.OutcomeNoAvailability)
		return nil, err
	case errors.Is(err, ErrConflict), errors.Is(err, txmanager.ErrSerialization):
		uc.logger.Warn("CreateAppointment: slot %s is taken for beautician=%d: %v", req.StartTime, req.BeauticianID, err)
		uc.metrics.RecordBooking(metrics.ModeManual, metrics.OutcomeConflict)
		return nil, ErrConflict
	default:
		uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
		uc.metrics.RecordBooking(metrics.ModeManual, metrics.OutcomeError)
		span.RecordError(err)
		if !errors.Is(err, ErrInternal) {
			err = fmt.Errorf("%w: %v", ErrInternal, err)
		}
		return nil, err
	}

	uc.preview.Invalidate(ctx, req.Date)
	uc.metrics.RecordBooking(metrics.ModeManual, metrics.OutcomeCreated)
	uc.logger.Info("CreateAppointment: created appointment id=%d, beautician=%d, %s-%s",
		created.ID, req.BeauticianID, created.StartTime, created.EndTime)

	return &Response{
		ID:             created.ID,
		CustomerID:     created.CustomerID,
		BeauticianID:   req.BeauticianID,
		BeauticianName: domain.BeauticianDisplayName(beautician),
		BranchID:       created.BranchID,
		Date:           created.Date,
		StartTime:      created.StartTime,
		EndTime:        created.EndTime,
		Status:         string(created.Status),
		ServiceIDs:     created.ServiceIDs,
		Name:           created.Name,
		Email:          created.Email,
		TotalPrice:     created.TotalPrice,
		Notes:          created.Notes,
		CreatedAt:      created.CreatedAt,
	}, nil
}

func (uc *UseCase) findQualified(ctx context.Context, req *Request) (*domain.Beautician, error) {
	qualified, err := uc.matcher.Qualified(ctx, req.ServiceIDs, req.BranchID)
	if err != nil {
		return nil, uc.mapMatcherError(err)
	}

	for _, b := range qualified {
		if b.ID == req.BeauticianID {
			return b, nil
		}
	}

	uc.logger.Warn("CreateAppointment: beautician=%d is not qualified for services %v", req.BeauticianID, req.ServiceIDs)
	uc.metrics.RecordBooking(metrics.ModeManual, metrics.OutcomeNoQualified)
	return nil, ErrNoQualifiedBeautician
}

func (uc *UseCase) mapMatcherError(err error) error {
	switch {
	case errors.Is(err, matcher.ErrInvalidInput), errors.Is(err, matcher.ErrUnknownService):
		uc.logger.Warn("CreateAppointment: invalid request: %v", err)
		uc.metrics.RecordBooking(metrics.ModeManual, metrics.OutcomeInvalid)
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	case errors.Is(err, matcher.ErrUpstream):
		uc.logger.Error("CreateAppointment: upstream failure: %v", err)
		uc.metrics.RecordBooking(metrics.ModeManual, metrics.OutcomeError)
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	default:
		uc.logger.Error("CreateAppointment: matcher failure: %v", err)
		uc.metrics.RecordBooking(metrics.ModeManual, metrics.OutcomeError)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
