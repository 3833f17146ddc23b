package matcher

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// CatalogRepository интерфейс каталога услуг
type CatalogRepository interface {
	GetServicesByIDs(ctx context.Context, ids []int64) ([]*domain.Service, error)
}

// CapabilityRepository интерфейс связки мастер-услуга
type CapabilityRepository interface {
	// ListQualifiedBeauticianIDs возвращает мастеров, у которых есть связка с КАЖДОЙ из услуг
	ListQualifiedBeauticianIDs(ctx context.Context, serviceIDs []int64) ([]int64, error)
}

// BeauticianDirectory интерфейс справочника мастеров (UserService)
type BeauticianDirectory interface {
	ListBeauticians(ctx context.Context, branchID *int64) ([]*domain.Beautician, error)
}

// SlotCalculator интерфейс калькулятора свободных слотов
type SlotCalculator interface {
	Calculate(ctx context.Context, beauticianID int64, date time.Time, durationMinutes int) ([]domain.Slot, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
