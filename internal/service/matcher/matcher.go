package matcher

import (
	"context"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/availability"
)

const defaultMaxParallel = 8

var matcherTracer = otel.Tracer("salonbooking.internal.service.matcher")

// Matcher подбирает мастеров, способных выполнить весь набор услуг
type Matcher struct {
	catalog     CatalogRepository
	capability  CapabilityRepository
	directory   BeauticianDirectory
	calculator  SlotCalculator
	maxParallel int
	logger      Logger
}

// NewMatcher создает новый экземпляр матчера.
// maxParallel ограничивает число одновременных расчетов свободного времени.
func NewMatcher(
	catalog CatalogRepository,
	capability CapabilityRepository,
	directory BeauticianDirectory,
	calculator SlotCalculator,
	maxParallel int,
	logger Logger,
) *Matcher {
	if maxParallel <= 0 {
		maxParallel = defaultMaxParallel
	}
	return &Matcher{
		catalog:     catalog,
		capability:  capability,
		directory:   directory,
		calculator:  calculator,
		maxParallel: maxParallel,
		logger:      logger,
	}
}

// ResolveServices загружает услуги в порядке запроса.
// Каждая услуга должна существовать и быть активной.
func (m *Matcher) ResolveServices(ctx context.Context, serviceIDs []int64) ([]*domain.Service, error) {
	if err := validateServiceIDs(serviceIDs); err != nil {
		return nil, err
	}

	services, err := m.catalog.GetServicesByIDs(ctx, serviceIDs)
	if err != nil {
		m.logger.Error("Matcher: failed to get services %v: %v", serviceIDs, err)
		return nil, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}

	byID := make(map[int64]*domain.Service, len(services))
	for _, s := range services {
		byID[s.ID] = s
	}

	ordered := make([]*domain.Service, 0, len(serviceIDs))
	for _, id := range serviceIDs {
		s, ok := byID[id]
		if !ok || !s.Active {
			return nil, fmt.Errorf("%w: id=%d", ErrUnknownService, id)
		}
		ordered = append(ordered, s)
	}

	return ordered, nil
}

// Qualified возвращает мастеров, у которых есть связка с каждой услугой,
// с учетом фильтра по филиалу. Результат отсортирован по ID.
func (m *Matcher) Qualified(ctx context.Context, serviceIDs []int64, branchID *int64) ([]*domain.Beautician, error) {
	ids, err := m.capability.ListQualifiedBeauticianIDs(ctx, serviceIDs)
	if err != nil {
		m.logger.Error("Matcher: failed to get qualified beauticians for services %v: %v", serviceIDs, err)
		return nil, fmt.Errorf("%w: failed to get capabilities: %v", ErrInternal, err)
	}
	if len(ids) == 0 {
		return []*domain.Beautician{}, nil
	}

	directory, err := m.directory.ListBeauticians(ctx, branchID)
	if err != nil {
		// Без фильтра по филиалу справочник нужен только для имен
		if branchID == nil {
			m.logger.Error("Matcher: beautician directory unavailable, falling back to bare ids: %v", err)
			return bareBeauticians(ids), nil
		}
		m.logger.Error("Matcher: beautician directory unavailable for branch=%d: %v", *branchID, err)
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	known := make(map[int64]*domain.Beautician, len(directory))
	for _, b := range directory {
		known[b.ID] = b
	}

	qualified := make([]*domain.Beautician, 0, len(ids))
	for _, id := range ids {
		if b, ok := known[id]; ok {
			qualified = append(qualified, b)
		}
	}
	sort.Slice(qualified, func(i, j int) bool { return qualified[i].ID < qualified[j].ID })

	return qualified, nil
}

// Match подбирает мастеров со свободным временем на дату.
//
// ErrNoQualifiedBeautician - никто не выполняет весь набор услуг (проблема каталога).
// ErrNoAvailability - квалифицированные мастера есть, но свободных слотов нет (проблема даты).
func (m *Matcher) Match(ctx context.Context, req *Request) (*Result, error) {
	ctx, span := matcherTracer.Start(ctx, "matcher.match")
	defer span.End()
	span.SetAttributes(
		attribute.Int64Slice("salon.service_ids", req.ServiceIDs),
		attribute.String("salon.date", req.Date.Format(domain.DateFormat)),
	)

	result, err := m.match(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("salon.candidates", len(result.Candidates)))
	return result, nil
}

func (m *Matcher) match(ctx context.Context, req *Request) (*Result, error) {
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	services, err := m.ResolveServices(ctx, req.ServiceIDs)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Services:      services,
		TotalDuration: domain.TotalDuration(services),
		TotalPrice:    domain.TotalPrice(services),
	}

	qualified, err := m.Qualified(ctx, req.ServiceIDs, req.BranchID)
	if err != nil {
		return nil, err
	}
	if len(qualified) == 0 {
		m.logger.Warn("Matcher: no beautician offers services %v", req.ServiceIDs)
		return nil, ErrNoQualifiedBeautician
	}

	slots := make([][]domain.Slot, len(qualified))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.maxParallel)
	for i, b := range qualified {
		g.Go(func() error {
			s, err := m.calculator.Calculate(gctx, b.ID, req.Date, result.TotalDuration)
			if err != nil {
				return fmt.Errorf("beautician=%d: %w", b.ID, err)
			}
			if req.NotBefore != nil {
				s = availability.DropBefore(s, *req.NotBefore)
			}
			slots[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		m.logger.Error("Matcher: failed to calculate availability: %v", err)
		return nil, fmt.Errorf("%w: failed to calculate availability: %v", ErrInternal, err)
	}

	result.Candidates = make([]Candidate, 0, len(qualified))
	for i, b := range qualified {
		if len(slots[i]) == 0 {
			continue
		}
		result.Candidates = append(result.Candidates, Candidate{Beautician: b, Slots: slots[i]})
	}

	if len(result.Candidates) == 0 {
		m.logger.Info("Matcher: %d qualified beauticians, none free on %s",
			len(qualified), req.Date.Format(domain.DateFormat))
		return nil, ErrNoAvailability
	}

	return result, nil
}

func validateServiceIDs(serviceIDs []int64) error {
	if len(serviceIDs) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}
	seen := make(map[int64]struct{}, len(serviceIDs))
	for _, id := range serviceIDs {
		if id <= 0 {
			return fmt.Errorf("%w: service id must be positive", ErrInvalidInput)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate service id=%d", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

func bareBeauticians(ids []int64) []*domain.Beautician {
	out := make([]*domain.Beautician, 0, len(ids))
	for _, id := range ids {
		out = append(out, &domain.Beautician{ID: id})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
