package smart_booking

import (
	"context"

	smartBooking "github.com/m04kA/SMC-SalonBooking/internal/usecase/smart_booking"
)

type SmartBookingUseCase interface {
	Execute(ctx context.Context, req *smartBooking.Request) (*smartBooking.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
