package find_best_beautician

import (
	"context"

	findBest "github.com/m04kA/SMC-SalonBooking/internal/usecase/find_best_beautician"
)

type FindBestBeauticianUseCase interface {
	Execute(ctx context.Context, req *findBest.Request) (*findBest.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
