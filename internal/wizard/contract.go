package wizard

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/integrations/bookingapi"
)

// BookingAPI операции сервиса записи, которые вызывает мастер
type BookingAPI interface {
	FindBestBeautician(ctx context.Context, q bookingapi.PreviewQuery) (*bookingapi.Recommendation, error)
	AvailableBeauticians(ctx context.Context, q bookingapi.PreviewQuery) (*bookingapi.BeauticianList, error)
	AvailableTimeSlots(ctx context.Context, beauticianID int64, totalDuration int, date time.Time) ([]bookingapi.Slot, error)
	SmartBooking(ctx context.Context, customerID int64, req *bookingapi.SmartBookingRequest) (*bookingapi.Appointment, error)
	CreateAppointment(ctx context.Context, customerID int64, req *bookingapi.CreateAppointmentRequest) (*bookingapi.Appointment, error)
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
