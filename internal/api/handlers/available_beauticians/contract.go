package available_beauticians

import (
	"context"

	availableBeauticians "github.com/m04kA/SMC-SalonBooking/internal/usecase/available_beauticians"
)

type AvailableBeauticiansUseCase interface {
	Execute(ctx context.Context, req *availableBeauticians.Request) (*availableBeauticians.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
