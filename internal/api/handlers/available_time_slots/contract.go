package available_time_slots

import (
	"context"

	availableTimeSlots "github.com/m04kA/SMC-SalonBooking/internal/usecase/available_time_slots"
)

type AvailableTimeSlotsUseCase interface {
	Execute(ctx context.Context, req *availableTimeSlots.Request) (*availableTimeSlots.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
