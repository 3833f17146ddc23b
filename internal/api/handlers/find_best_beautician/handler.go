package find_best_beautician

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	findBest "github.com/m04kA/SMC-SalonBooking/internal/usecase/find_best_beautician"
)

const (
	msgInvalidServiceIDs = "service_ids должен быть списком положительных ID через запятую"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidBranchID   = "некорректный ID филиала"
	msgDateInPast        = "нельзя записаться на прошедшую дату"
	msgNoQualified       = "ни один мастер не выполняет выбранный набор услуг"
	msgNoAvailability    = "на выбранную дату нет свободного времени"
	msgUpstream          = "справочник мастеров временно недоступен"
)

type Handler struct {
	useCase FindBestBeauticianUseCase
	logger  Logger
}

func NewHandler(useCase FindBestBeauticianUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/find-best-beautician
// Query params: service_ids (1,2,3), date (YYYY-MM-DD), branch_id (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	serviceIDs, err := handlers.ParseIDList(query.Get("service_ids"))
	if err != nil {
		h.logger.Warn("GET /find-best-beautician - Invalid service_ids: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceIDs)
		return
	}

	date, err := handlers.ParseDate(query.Get("date"))
	if err != nil {
		h.logger.Warn("GET /find-best-beautician - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	branchID, err := handlers.ParseOptionalID(query.Get("branch_id"))
	if err != nil {
		h.logger.Warn("GET /find-best-beautician - Invalid branch_id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBranchID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &findBest.Request{
		ServiceIDs: serviceIDs,
		Date:       date,
		BranchID:   branchID,
	})
	if err != nil {
		switch {
		case errors.Is(err, findBest.ErrInvalidInput):
			h.logger.Warn("GET /find-best-beautician - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, findBest.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, findBest.ErrNoQualifiedBeautician):
			h.logger.Info("GET /find-best-beautician - No qualified beautician: services=%v", serviceIDs)
			handlers.RespondUnprocessable(w, handlers.CodeNoQualifiedBeautician, msgNoQualified)

		case errors.Is(err, findBest.ErrNoAvailability):
			h.logger.Info("GET /find-best-beautician - No availability: services=%v, date=%s", serviceIDs, query.Get("date"))
			handlers.RespondUnprocessable(w, handlers.CodeNoAvailability, msgNoAvailability)

		case errors.Is(err, findBest.ErrUpstream):
			h.logger.Error("GET /find-best-beautician - Upstream unavailable: %v", err)
			handlers.RespondServiceUnavailable(w, msgUpstream)

		default:
			h.logger.Error("GET /find-best-beautician - Failed to find beautician: services=%v, error=%v", serviceIDs, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /find-best-beautician - Recommended beautician=%d at %s", result.BeauticianID, result.StartTime)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(date, result))
}
