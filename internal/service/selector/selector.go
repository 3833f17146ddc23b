package selector

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/infra/cache/preview"
	"github.com/m04kA/SMC-SalonBooking/internal/service/matcher"
)

const (
	cacheHit   = "hit"
	cacheMiss  = "miss"
	cacheError = "error"
)

// Result рекомендация вместе с итогами по услугам
type Result struct {
	Recommendation preview.Entry
	Cached         bool
}

// Selector подбирает лучший (мастер, слот) для предпросмотра
type Selector struct {
	matcher Matcher
	cache   PreviewCache // nil - без кэша
	metrics Metrics
	logger  Logger
}

// NewSelector создает селектор. cache и metrics могут быть nil.
func NewSelector(m Matcher, cache PreviewCache, metrics Metrics, logger Logger) *Selector {
	return &Selector{matcher: m, cache: cache, metrics: metrics, logger: logger}
}

// Recommend возвращает рекомендацию для предпросмотра.
// Результат носит рекомендательный характер и может кэшироваться.
// Запросы на сегодня (NotBefore задан) не кэшируются: ответ зависит от текущего времени.
func (s *Selector) Recommend(ctx context.Context, req *matcher.Request) (*Result, error) {
	key := preview.Key{ServiceIDs: req.ServiceIDs, Date: req.Date, BranchID: req.BranchID}
	cacheable := s.cache != nil && req.NotBefore == nil

	if entry, ok := s.lookup(ctx, key, cacheable); ok {
		return &Result{Recommendation: *entry, Cached: true}, nil
	}

	res, err := s.matcher.Match(ctx, req)
	if err != nil {
		return nil, err
	}

	best, ok := SelectBest(res.Candidates)
	if !ok {
		return nil, matcher.ErrNoAvailability
	}

	entry := preview.Entry{
		BeauticianID:   best.BeauticianID,
		BeauticianName: best.BeauticianName,
		StartTime:      best.StartTime.String(),
		EndTime:        best.EndTime.String(),
		TotalDuration:  res.TotalDuration,
		TotalPrice:     res.TotalPrice,
	}

	if cacheable {
		if err := s.cache.Set(ctx, key, &entry); err != nil {
			s.logger.Warn("Recommend: failed to cache preview: %v", err)
		}
	}

	return &Result{Recommendation: entry}, nil
}

// Invalidate сбрасывает кэш предпросмотра на дату. Ошибки только логируются.
func (s *Selector) Invalidate(ctx context.Context, date time.Time) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, date); err != nil {
		s.logger.Warn("Invalidate: failed to bump preview version for %s: %v", date.Format(domain.DateFormat), err)
	}
}

func (s *Selector) lookup(ctx context.Context, key preview.Key, cacheable bool) (*preview.Entry, bool) {
	if !cacheable {
		return nil, false
	}

	entry, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("Recommend: preview cache unavailable: %v", err)
		s.record(cacheError)
		return nil, false
	}
	if !ok {
		s.record(cacheMiss)
		return nil, false
	}

	s.record(cacheHit)
	return entry, true
}

func (s *Selector) record(result string) {
	if s.metrics != nil {
		s.metrics.RecordPreviewCache(result)
	}
}
