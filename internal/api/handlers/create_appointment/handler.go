package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	createAppointment "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени начала, ожидается HH:MM"
	msgMissingUser        = "не удалось определить клиента"
	msgTimeInPast         = "выбранное время уже прошло"
	msgNotQualified       = "мастер не выполняет выбранный набор услуг"
	msgOutsideHours       = "выбранное время вне рабочих часов мастера"
	msgSlotTaken          = "выбранное время уже занято"
	msgUpstream           = "справочник мастеров временно недоступен"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, errDate, errTime := req.ToUseCaseRequest(customerID)
	if errDate != nil {
		h.logger.Warn("POST /appointments - Invalid date: %v", errDate)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	if errTime != nil {
		h.logger.Warn("POST /appointments - Invalid start time: %v", errTime)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: customer_id=%d, error=%v", customerID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, createAppointment.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgTimeInPast)

		case errors.Is(err, createAppointment.ErrNoQualifiedBeautician):
			h.logger.Warn("POST /appointments - Beautician not qualified: beautician_id=%d, services=%v",
				req.BeauticianID, req.ServiceIDs)
			handlers.RespondUnprocessable(w, handlers.CodeNoQualifiedBeautician, msgNotQualified)

		case errors.Is(err, createAppointment.ErrNoAvailability):
			h.logger.Info("POST /appointments - Outside working hours: beautician_id=%d, start=%s", req.BeauticianID, req.StartTime)
			handlers.RespondUnprocessable(w, handlers.CodeNoAvailability, msgOutsideHours)

		case errors.Is(err, createAppointment.ErrConflict):
			h.logger.Warn("POST /appointments - Slot conflict: beautician_id=%d, date=%s, start=%s",
				req.BeauticianID, req.Date, req.StartTime)
			handlers.RespondConflict(w, msgSlotTaken)

		case errors.Is(err, createAppointment.ErrUpstream):
			h.logger.Error("POST /appointments - Upstream unavailable: %v", err)
			handlers.RespondServiceUnavailable(w, msgUpstream)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: customer_id=%d, beautician_id=%d, error=%v",
				customerID, req.BeauticianID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created: appointment_id=%d, customer_id=%d, beautician_id=%d",
		result.ID, customerID, result.BeauticianID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
