package available_time_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	availableTimeSlots "github.com/m04kA/SMC-SalonBooking/internal/usecase/available_time_slots"
)

const (
	msgInvalidBeauticianID = "некорректный ID мастера"
	msgInvalidDuration     = "total_duration должен быть положительным числом минут"
	msgMissingDate         = "дата обязательна"
	msgInvalidDate         = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgDateInPast          = "нельзя записаться на прошедшую дату"
)

type Handler struct {
	useCase AvailableTimeSlotsUseCase
	logger  Logger
}

func NewHandler(useCase AvailableTimeSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/beauticians/{beauticianId}/available-time-slots
// Query params: total_duration (минуты), date (YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	beauticianID, err := strconv.ParseInt(vars["beauticianId"], 10, 64)
	if err != nil || beauticianID <= 0 {
		h.logger.Warn("GET /beauticians/{id}/available-time-slots - Invalid beautician ID: %s", vars["beauticianId"])
		handlers.RespondBadRequest(w, msgInvalidBeauticianID)
		return
	}

	query := r.URL.Query()

	duration, err := strconv.Atoi(query.Get("total_duration"))
	if err != nil || duration <= 0 {
		h.logger.Warn("GET /beauticians/{id}/available-time-slots - Invalid total_duration: %q", query.Get("total_duration"))
		handlers.RespondBadRequest(w, msgInvalidDuration)
		return
	}

	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /beauticians/{id}/available-time-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	date, err := handlers.ParseDate(dateStr)
	if err != nil {
		h.logger.Warn("GET /beauticians/{id}/available-time-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &availableTimeSlots.Request{
		BeauticianID:  beauticianID,
		TotalDuration: duration,
		Date:          date,
	})
	if err != nil {
		switch {
		case errors.Is(err, availableTimeSlots.ErrInvalidInput):
			h.logger.Warn("GET /beauticians/{id}/available-time-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, availableTimeSlots.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgDateInPast)

		default:
			h.logger.Error("GET /beauticians/{id}/available-time-slots - Failed to get slots: beautician_id=%d, error=%v", beauticianID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /beauticians/{id}/available-time-slots - Slots retrieved: beautician_id=%d, slots_count=%d",
		beauticianID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
