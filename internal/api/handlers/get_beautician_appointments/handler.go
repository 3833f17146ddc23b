package get_beautician_appointments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments/models"
)

const (
	msgInvalidBeauticianID = "некорректный ID мастера"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgMissingDate         = "не указана дата"
	msgInvalidDate         = "некорректная дата, ожидается формат YYYY-MM-DD"
	msgForbidden           = "доступ запрещен"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/beauticians/{beauticianId}/appointments?date=YYYY-MM-DD
// Расписание мастера на день: только активные записи
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	beauticianID, err := strconv.ParseInt(vars["beauticianId"], 10, 64)
	if err != nil || beauticianID <= 0 {
		h.logger.Warn("GET /beauticians/{id}/appointments - Invalid beautician ID: %s", vars["beauticianId"])
		handlers.RespondBadRequest(w, msgInvalidBeauticianID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}
	date, err := handlers.ParseDate(dateStr)
	if err != nil {
		h.logger.Warn("GET /beauticians/{id}/appointments - Invalid date: %s", dateStr)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.ListByBeautician(r.Context(), &models.ListByBeauticianRequest{
		Actor:        models.Actor{UserID: userID, Role: middleware.GetUserRole(r.Context())},
		BeauticianID: beauticianID,
		Date:         date,
	})
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("GET /beauticians/{id}/appointments - Access denied: beautician_id=%d, user_id=%d", beauticianID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, appointments.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /beauticians/{id}/appointments - Failed to get appointments: beautician_id=%d, error=%v",
				beauticianID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /beauticians/{id}/appointments - Day sheet retrieved: beautician_id=%d, date=%s, count=%d",
		beauticianID, dateStr, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
