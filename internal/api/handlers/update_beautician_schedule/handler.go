package update_beautician_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/service/schedule"
	"github.com/m04kA/SMC-SalonBooking/internal/service/schedule/models"
)

const (
	msgInvalidBeauticianID = "некорректный ID мастера"
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgForbidden           = "доступ запрещен"
	msgOverlapping         = "рабочие окна пересекаются"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/beauticians/{beauticianId}/schedule/{day}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	beauticianID, err := strconv.ParseInt(vars["beauticianId"], 10, 64)
	if err != nil || beauticianID <= 0 {
		h.logger.Warn("PUT /beauticians/{id}/schedule/{day} - Invalid beautician ID: %s", vars["beauticianId"])
		handlers.RespondBadRequest(w, msgInvalidBeauticianID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.ReplaceDayRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /beauticians/{id}/schedule/{day} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.UserID = userID
	req.Role = middleware.GetUserRole(r.Context())
	req.BeauticianID = beauticianID
	req.Day = vars["day"]

	result, err := h.service.ReplaceDay(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("PUT /beauticians/{id}/schedule/{day} - Access denied: beautician_id=%d, user_id=%d", beauticianID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /beauticians/{id}/schedule/{day} - Invalid data: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, schedule.ErrOverlappingWindows):
			handlers.RespondBadRequest(w, msgOverlapping)

		default:
			h.logger.Error("PUT /beauticians/{id}/schedule/{day} - Failed to update schedule: beautician_id=%d, error=%v",
				beauticianID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /beauticians/{id}/schedule/{day} - Schedule updated: beautician_id=%d, day=%s, windows=%d",
		beauticianID, result.Day, len(result.Windows))
	handlers.RespondJSON(w, http.StatusOK, result)
}
