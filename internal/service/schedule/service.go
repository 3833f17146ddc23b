package schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/availability"
	"github.com/m04kA/SMC-SalonBooking/internal/service/schedule/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// maxWindowsPerDay ограничение на число смен в одном дне
const maxWindowsPerDay = 8

// Service сервис для управления недельным шаблоном мастеров
type Service struct {
	availabilityRepo AvailabilityRepository
	txManager        TransactionManager
	logger           Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(availabilityRepo AvailabilityRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		availabilityRepo: availabilityRepo,
		txManager:        txManager,
		logger:           logger,
	}
}

// GetWeek получает недельный шаблон мастера.
// Публичный метод - доступен всем.
func (s *Service) GetWeek(ctx context.Context, beauticianID int64) (*models.WeekResponse, error) {
	s.logger.Info("GetWeek: fetching schedule for beautician=%d", beauticianID)

	if beauticianID <= 0 {
		return nil, fmt.Errorf("%w: beauticianID must be positive", ErrInvalidInput)
	}

	rows, err := s.availabilityRepo.ListByBeautician(ctx, beauticianID)
	if err != nil {
		s.logger.Error("GetWeek: repository error for beautician=%d: %v", beauticianID, err)
		return nil, fmt.Errorf("%w: GetWeek - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainWeek(beauticianID, rows), nil
}

// ReplaceDay заменяет расписание одного дня недели целиком.
// Доступно персоналу и самому мастеру. Окна не должны пересекаться.
func (s *Service) ReplaceDay(ctx context.Context, req *models.ReplaceDayRequest) (*models.DayResponse, error) {
	s.logger.Info("ReplaceDay: beautician=%d, day=%s, windows=%d by user=%d",
		req.BeauticianID, req.Day, len(req.Windows), req.UserID)

	if !domain.IsStaffRole(req.Role) && !(req.Role == domain.RoleBeautician && req.UserID == req.BeauticianID) {
		s.logger.Warn("ReplaceDay: access denied for user=%d to beautician=%d", req.UserID, req.BeauticianID)
		return nil, ErrAccessDenied
	}

	day, windows, err := parseDay(req)
	if err != nil {
		s.logger.Warn("ReplaceDay: validation failed: %v", err)
		return nil, err
	}

	var rows []domain.BeauticianAvailability

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		rows, err = s.availabilityRepo.ReplaceDay(txCtx, req.BeauticianID, day, windows)
		if errors.Is(err, availabilityRepo.ErrOverlap) {
			return ErrOverlappingWindows
		}
		if err != nil {
			return fmt.Errorf("%w: ReplaceDay - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			s.logger.Error("ReplaceDay: failed for beautician=%d, day=%s: %v", req.BeauticianID, day, err)
		}
		return nil, err
	}

	s.logger.Info("ReplaceDay: beautician=%d now has %d windows on %s", req.BeauticianID, len(rows), day)
	resp := models.FromDomainDay(day, rows)
	return &resp, nil
}

// parseDay проверяет день и окна: HH:MM, start < end, без пересечений
func parseDay(req *models.ReplaceDayRequest) (domain.DayOfWeek, []domain.TimeWindow, error) {
	if req.BeauticianID <= 0 {
		return 0, nil, fmt.Errorf("%w: beauticianID must be positive", ErrInvalidInput)
	}

	day, err := domain.ParseDayOfWeek(req.Day)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if len(req.Windows) > maxWindowsPerDay {
		return 0, nil, fmt.Errorf("%w: at most %d windows per day", ErrInvalidInput, maxWindowsPerDay)
	}

	windows := make([]domain.TimeWindow, 0, len(req.Windows))
	for i, w := range req.Windows {
		start, err := types.NewTimeStringFromString(w.StartTime)
		if err != nil {
			return 0, nil, fmt.Errorf("%w: windows[%d].startTime: %v", ErrInvalidInput, i, err)
		}
		end, err := types.NewTimeStringFromString(w.EndTime)
		if err != nil {
			return 0, nil, fmt.Errorf("%w: windows[%d].endTime: %v", ErrInvalidInput, i, err)
		}

		window := domain.TimeWindow{Start: start, End: end}
		if !window.IsValid() {
			return 0, nil, fmt.Errorf("%w: windows[%d]: start must be before end", ErrInvalidInput, i)
		}
		windows = append(windows, window)
	}

	sort.Slice(windows, func(i, j int) bool { return windows[i].Start.IsBefore(windows[j].Start) })
	for i := 1; i < len(windows); i++ {
		if windows[i].Overlaps(windows[i-1]) {
			return 0, nil, fmt.Errorf("%w: %s and %s", ErrOverlappingWindows, windows[i-1], windows[i])
		}
	}

	return day, windows, nil
}
