package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// AvailabilityRepository интерфейс репозитория недельного шаблона
type AvailabilityRepository interface {
	ListByBeauticianAndDay(ctx context.Context, beauticianID int64, day domain.DayOfWeek) ([]domain.BeauticianAvailability, error)
}

// AppointmentRepository интерфейс журнала записей
type AppointmentRepository interface {
	// ListActiveByBeauticianAndDate возвращает неотмененные записи мастера на дату, отсортированные по началу
	ListActiveByBeauticianAndDate(ctx context.Context, beauticianID int64, date time.Time) ([]*domain.Appointment, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
