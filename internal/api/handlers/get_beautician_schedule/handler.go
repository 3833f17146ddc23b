package get_beautician_schedule

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
)

const (
	msgInvalidBeauticianID = "некорректный ID мастера"
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

// Handle GET /api/v1/beauticians/{beauticianId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	beauticianID, err := strconv.ParseInt(vars["beauticianId"], 10, 64)
	if err != nil || beauticianID <= 0 {
		h.logger.Warn("GET /beauticians/{id}/schedule - Invalid beautician ID: %s", vars["beauticianId"])
		handlers.RespondBadRequest(w, msgInvalidBeauticianID)
		return
	}

	result, err := h.service.GetWeek(r.Context(), beauticianID)
	if err != nil {
		h.logger.Error("GET /beauticians/{id}/schedule - Failed to get schedule: beautician_id=%d, error=%v", beauticianID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /beauticians/{id}/schedule - Schedule retrieved: beautician_id=%d", beauticianID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
