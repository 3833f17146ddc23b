package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments/models"
)

// Service сервис для работы с журналом записей
type Service struct {
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	preview         PreviewInvalidator
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	preview PreviewInvalidator,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		preview:         preview,
		logger:          logger,
	}
}

// GetByID получает запись по ID.
// Видеть запись может ее клиент, назначенный мастер или персонал салона.
func (s *Service) GetByID(ctx context.Context, id int64, actor models.Actor) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%d", id, actor.UserID)

	appointment, err := s.get(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if !canView(appointment, actor) {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d", actor.UserID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainAppointment(appointment), nil
}

// ListByCustomer получает историю записей клиента, опционально по статусу
func (s *Service) ListByCustomer(ctx context.Context, req *models.ListByCustomerRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListByCustomer: fetching appointments for customer=%d, status=%v", req.CustomerID, req.Status)

	if req.CustomerID <= 0 {
		return nil, fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if req.Actor.UserID != req.CustomerID && !req.Actor.IsStaff() {
		s.logger.Warn("ListByCustomer: access denied for user=%d to customer=%d", req.Actor.UserID, req.CustomerID)
		return nil, ErrAccessDenied
	}

	var status *domain.AppointmentStatus
	if req.Status != nil {
		parsed, err := models.ToDomainStatus(*req.Status)
		if err != nil {
			s.logger.Warn("ListByCustomer: invalid status=%s", *req.Status)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		status = &parsed
	}

	list, err := s.appointmentRepo.ListByCustomer(ctx, req.CustomerID, status)
	if err != nil {
		s.logger.Error("ListByCustomer: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: ListByCustomer - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByCustomer: fetched %d appointments for customer=%d", len(list), req.CustomerID)
	return models.FromDomainAppointmentList(list), nil
}

// ListByBeautician получает активные записи мастера на дату по возрастанию начала.
// Доступно самому мастеру и персоналу салона.
func (s *Service) ListByBeautician(ctx context.Context, req *models.ListByBeauticianRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListByBeautician: fetching day sheet for beautician=%d, date=%s",
		req.BeauticianID, req.Date.Format(domain.DateFormat))

	if req.BeauticianID <= 0 || req.Date.IsZero() {
		return nil, fmt.Errorf("%w: beauticianID and date are required", ErrInvalidInput)
	}

	isSelf := req.Actor.Role == domain.RoleBeautician && req.Actor.UserID == req.BeauticianID
	if !isSelf && !req.Actor.IsStaff() {
		s.logger.Warn("ListByBeautician: access denied for user=%d to beautician=%d", req.Actor.UserID, req.BeauticianID)
		return nil, ErrAccessDenied
	}

	list, err := s.appointmentRepo.ListActiveByBeauticianAndDate(ctx, req.BeauticianID, req.Date)
	if err != nil {
		s.logger.Error("ListByBeautician: repository error for beautician=%d: %v", req.BeauticianID, err)
		return nil, fmt.Errorf("%w: ListByBeautician - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByBeautician: fetched %d appointments for beautician=%d", len(list), req.BeauticianID)
	return models.FromDomainAppointmentList(list), nil
}

// Cancel отменяет запись (мягкое удаление).
// Клиент может отменить свою запись, персонал - любую.
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelRequest) error {
	s.logger.Info("Cancel: cancelling appointment id=%d by user=%d", id, req.Actor.UserID)

	if req.CancellationReason != nil && len(*req.CancellationReason) > domain.MaxNotesLength {
		return fmt.Errorf("%w: cancellation reason is too long", ErrInvalidInput)
	}

	var cancelled *domain.Appointment

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		appointment, err := s.get(txCtx, "Cancel", id)
		if err != nil {
			return err
		}

		if appointment.CustomerID != req.Actor.UserID && !req.Actor.IsStaff() {
			s.logger.Warn("Cancel: access denied for user=%d to appointment id=%d", req.Actor.UserID, id)
			return ErrAccessDenied
		}

		if !appointment.CanBeCancelled() {
			s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", id, appointment.Status)
			return ErrCannotCancel
		}

		if err := s.appointmentRepo.Cancel(txCtx, id, req.CancellationReason); err != nil {
			return s.mapRepoError("Cancel", id, err)
		}

		cancelled = appointment
		return nil
	})
	if err != nil {
		return err
	}

	s.preview.Invalidate(ctx, cancelled.Date)
	s.logger.Info("Cancel: cancelled appointment id=%d", id)
	return nil
}

// UpdateStatus меняет статус записи.
// Доступно персоналу и мастеру, назначенному на запись.
// Допустимые переходы: SCHEDULED → CONFIRMED → COMPLETED, любой незавершенный → CANCELLED.
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s by user=%d", id, req.Status, req.Actor.UserID)

	next, err := models.ToDomainStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", req.Status, id)
		return fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	var updated *domain.Appointment

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		appointment, err := s.get(txCtx, "UpdateStatus", id)
		if err != nil {
			return err
		}

		if !req.Actor.IsStaff() && !isAssignedBeautician(appointment, req.Actor) {
			s.logger.Warn("UpdateStatus: access denied for user=%d to appointment id=%d", req.Actor.UserID, id)
			return ErrAccessDenied
		}

		if !appointment.CanTransitionTo(next) {
			s.logger.Warn("UpdateStatus: transition %s -> %s is not allowed for appointment id=%d", appointment.Status, next, id)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appointment.Status, next)
		}

		if next == domain.StatusCancelled {
			err = s.appointmentRepo.Cancel(txCtx, id, nil)
		} else {
			err = s.appointmentRepo.UpdateStatus(txCtx, id, next)
		}
		if err != nil {
			return s.mapRepoError("UpdateStatus", id, err)
		}

		updated = appointment
		return nil
	})
	if err != nil {
		return err
	}

	s.preview.Invalidate(ctx, updated.Date)
	s.logger.Info("UpdateStatus: appointment id=%d is now %s", id, next)
	return nil
}

func (s *Service) get(ctx context.Context, op string, id int64) (*domain.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(op, id, err)
	}
	return appointment, nil
}

func (s *Service) mapRepoError(op string, id int64, err error) error {
	if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
		s.logger.Warn("%s: appointment id=%d not found", op, id)
		return ErrAppointmentNotFound
	}
	s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}

func canView(a *domain.Appointment, actor models.Actor) bool {
	return a.CustomerID == actor.UserID || actor.IsStaff() || isAssignedBeautician(a, actor)
}

func isAssignedBeautician(a *domain.Appointment, actor models.Actor) bool {
	return actor.Role == domain.RoleBeautician && a.BeauticianID != nil && *a.BeauticianID == actor.UserID
}
