package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Matcher интерфейс каталога и квалификации мастеров
type Matcher interface {
	ResolveServices(ctx context.Context, serviceIDs []int64) ([]*domain.Service, error)
	Qualified(ctx context.Context, serviceIDs []int64, branchID *int64) ([]*domain.Beautician, error)
}

// AvailabilityRepository интерфейс репозитория недельного шаблона
type AvailabilityRepository interface {
	ListByBeauticianAndDay(ctx context.Context, beauticianID int64, day domain.DayOfWeek) ([]domain.BeauticianAvailability, error)
}

// AppointmentRepository интерфейс журнала записей
type AppointmentRepository interface {
	LockBeauticianDay(ctx context.Context, beauticianID int64, date time.Time) error
	ListActiveByBeauticianAndDate(ctx context.Context, beauticianID int64, date time.Time) ([]*domain.Appointment, error)
	Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
}

// SlotChecker проверка выбранного вручную слота по уже загруженным данным
type SlotChecker interface {
	CheckSlot(template []domain.BeauticianAvailability, appointments []*domain.Appointment, start types.TimeString, durationMinutes int) (domain.Slot, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// PreviewInvalidator сбрасывает кэш предпросмотра на дату
type PreviewInvalidator interface {
	Invalidate(ctx context.Context, date time.Time)
}

// Metrics интерфейс учета исходов бронирования
type Metrics interface {
	RecordBooking(mode, outcome string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени в часовом поясе салона
type RealTimeProvider struct {
	Location *time.Location
}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	if p.Location == nil {
		return time.Now()
	}
	return time.Now().In(p.Location)
}
