package available_beauticians

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	availableBeauticians "github.com/m04kA/SMC-SalonBooking/internal/usecase/available_beauticians"
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
	useCase AvailableBeauticiansUseCase
	logger  Logger
}

func NewHandler(useCase AvailableBeauticiansUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/available-beauticians
// Query params: service_ids (1,2,3), date (YYYY-MM-DD), branch_id (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	serviceIDs, err := handlers.ParseIDList(query.Get("service_ids"))
	if err != nil {
		h.logger.Warn("GET /available-beauticians - Invalid service_ids: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceIDs)
		return
	}

	date, err := handlers.ParseDate(query.Get("date"))
	if err != nil {
		h.logger.Warn("GET /available-beauticians - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	branchID, err := handlers.ParseOptionalID(query.Get("branch_id"))
	if err != nil {
		h.logger.Warn("GET /available-beauticians - Invalid branch_id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBranchID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &availableBeauticians.Request{
		ServiceIDs: serviceIDs,
		Date:       date,
		BranchID:   branchID,
	})
	if err != nil {
		switch {
		case errors.Is(err, availableBeauticians.ErrInvalidInput):
			h.logger.Warn("GET /available-beauticians - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, availableBeauticians.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, availableBeauticians.ErrNoQualifiedBeautician):
			h.logger.Info("GET /available-beauticians - No qualified beautician: services=%v", serviceIDs)
			handlers.RespondUnprocessable(w, handlers.CodeNoQualifiedBeautician, msgNoQualified)

		case errors.Is(err, availableBeauticians.ErrNoAvailability):
			h.logger.Info("GET /available-beauticians - No availability: services=%v, date=%s", serviceIDs, query.Get("date"))
			handlers.RespondUnprocessable(w, handlers.CodeNoAvailability, msgNoAvailability)

		case errors.Is(err, availableBeauticians.ErrUpstream):
			h.logger.Error("GET /available-beauticians - Upstream unavailable: %v", err)
			handlers.RespondServiceUnavailable(w, msgUpstream)

		default:
			h.logger.Error("GET /available-beauticians - Failed to list beauticians: services=%v, error=%v", serviceIDs, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /available-beauticians - Found %d beauticians: services=%v", len(result.Beauticians), serviceIDs)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(date, result))
}
