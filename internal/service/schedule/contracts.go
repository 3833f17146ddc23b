package schedule

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// AvailabilityRepository интерфейс репозитория недельного шаблона
type AvailabilityRepository interface {
	ListByBeautician(ctx context.Context, beauticianID int64) ([]domain.BeauticianAvailability, error)
	ReplaceDay(ctx context.Context, beauticianID int64, day domain.DayOfWeek, windows []domain.TimeWindow) ([]domain.BeauticianAvailability, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
