package find_best_beautician

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/availability"
	"github.com/m04kA/SMC-SalonBooking/internal/service/matcher"
)

// UseCase предпросмотр умного бронирования: один лучший (мастер, слот)
type UseCase struct {
	selector     Selector
	maxServices  int
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(selector Selector, maxServices int, timeProvider TimeProvider, logger Logger) *UseCase {
	return &UseCase{
		selector:     selector,
		maxServices:  maxServices,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute возвращает рекомендацию. Результат рекомендательный:
// при коммите слот пересчитывается заново.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("FindBestBeautician: services=%v, date=%s", req.ServiceIDs, req.Date.Format(domain.DateFormat))

	now := uc.timeProvider.Now()
	if err := validateRequest(req, uc.maxServices, now); err != nil {
		uc.logger.Warn("FindBestBeautician: validation failed: %v", err)
		return nil, err
	}

	mreq := &matcher.Request{ServiceIDs: req.ServiceIDs, Date: req.Date, BranchID: req.BranchID}
	if from, ok := availability.StartFloor(req.Date, now); ok {
		mreq.NotBefore = &from
	}

	res, err := uc.selector.Recommend(ctx, mreq)
	if err != nil {
		return nil, uc.mapError(err)
	}

	rec := res.Recommendation
	result, err := rec.Recommendation()
	if err != nil {
		uc.logger.Error("FindBestBeautician: broken recommendation %+v: %v", rec, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	uc.logger.Info("FindBestBeautician: recommended beautician=%d at %s-%s (cached=%t)",
		result.BeauticianID, result.StartTime, result.EndTime, res.Cached)

	return &Response{
		BeauticianID:   result.BeauticianID,
		BeauticianName: result.BeauticianName,
		StartTime:      result.StartTime,
		EndTime:        result.EndTime,
		TotalDuration:  rec.TotalDuration,
		TotalPrice:     rec.TotalPrice,
	}, nil
}

func (uc *UseCase) mapError(err error) error {
	switch {
	case errors.Is(err, matcher.ErrInvalidInput), errors.Is(err, matcher.ErrUnknownService):
		uc.logger.Warn("FindBestBeautician: invalid request: %v", err)
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	case errors.Is(err, matcher.ErrNoQualifiedBeautician):
		return ErrNoQualifiedBeautician
	case errors.Is(err, matcher.ErrNoAvailability):
		return ErrNoAvailability
	case errors.Is(err, matcher.ErrUpstream):
		uc.logger.Error("FindBestBeautician: upstream failure: %v", err)
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	default:
		uc.logger.Error("FindBestBeautician: failed to recommend: %v", err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
