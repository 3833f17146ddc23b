package selector

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/infra/cache/preview"
	"github.com/m04kA/SMC-SalonBooking/internal/service/matcher"
)

// Matcher интерфейс подбора мастеров
type Matcher interface {
	Match(ctx context.Context, req *matcher.Request) (*matcher.Result, error)
}

// PreviewCache интерфейс кэша предпросмотра
type PreviewCache interface {
	Get(ctx context.Context, key preview.Key) (*preview.Entry, bool, error)
	Set(ctx context.Context, key preview.Key, entry *preview.Entry) error
	Invalidate(ctx context.Context, date time.Time) error
}

// Metrics интерфейс учета попаданий в кэш
type Metrics interface {
	RecordPreviewCache(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
