package available_beauticians

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/availability"
	"github.com/m04kA/SMC-SalonBooking/internal/service/matcher"
)

// UseCase список квалифицированных мастеров, у которых есть время на дату
type UseCase struct {
	matcher      Matcher
	maxServices  int
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(m Matcher, maxServices int, timeProvider TimeProvider, logger Logger) *UseCase {
	return &UseCase{
		matcher:      m,
		maxServices:  maxServices,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute выполняет use case
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("AvailableBeauticians: services=%v, date=%s", req.ServiceIDs, req.Date.Format(domain.DateFormat))

	now := uc.timeProvider.Now()
	if err := validateRequest(req, uc.maxServices, now); err != nil {
		uc.logger.Warn("AvailableBeauticians: validation failed: %v", err)
		return nil, err
	}

	mreq := &matcher.Request{ServiceIDs: req.ServiceIDs, Date: req.Date, BranchID: req.BranchID}
	if from, ok := availability.StartFloor(req.Date, now); ok {
		mreq.NotBefore = &from
	}

	res, err := uc.matcher.Match(ctx, mreq)
	if err != nil {
		switch {
		case errors.Is(err, matcher.ErrInvalidInput), errors.Is(err, matcher.ErrUnknownService):
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		case errors.Is(err, matcher.ErrNoQualifiedBeautician):
			return nil, ErrNoQualifiedBeautician
		case errors.Is(err, matcher.ErrNoAvailability):
			return nil, ErrNoAvailability
		case errors.Is(err, matcher.ErrUpstream):
			uc.logger.Error("AvailableBeauticians: upstream failure: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
		default:
			uc.logger.Error("AvailableBeauticians: failed to match: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
	}

	resp := &Response{
		TotalDuration: res.TotalDuration,
		TotalPrice:    res.TotalPrice,
		Beauticians:   make([]Beautician, 0, len(res.Candidates)),
	}
	for _, c := range res.Candidates {
		resp.Beauticians = append(resp.Beauticians, Beautician{
			ID:    c.Beautician.ID,
			Name:  domain.BeauticianDisplayName(c.Beautician),
			Slots: c.Slots,
		})
	}

	uc.logger.Info("AvailableBeauticians: %d beauticians available", len(resp.Beauticians))
	return resp, nil
}
