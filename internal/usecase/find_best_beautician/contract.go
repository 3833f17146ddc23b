package find_best_beautician

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/service/matcher"
	"github.com/m04kA/SMC-SalonBooking/internal/service/selector"
)

// Selector интерфейс выбора лучшего слота
type Selector interface {
	Recommend(ctx context.Context, req *matcher.Request) (*selector.Result, error)
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
