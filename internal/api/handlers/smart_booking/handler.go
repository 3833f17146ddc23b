package smart_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	smartBooking "github.com/m04kA/SMC-SalonBooking/internal/usecase/smart_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingUser        = "не удалось определить клиента"
	msgDateInPast         = "нельзя записаться на прошедшую дату"
	msgNoQualified        = "ни один мастер не выполняет выбранный набор услуг"
	msgNoAvailability     = "на выбранную дату нет свободного времени"
	msgConflict           = "свободное время только что заняли, попробуйте еще раз"
	msgUpstream           = "справочник мастеров временно недоступен"
)

type Handler struct {
	useCase SmartBookingUseCase
	logger  Logger
}

func NewHandler(useCase SmartBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/smart-booking
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	var req SmartBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /smart-booking - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(customerID)
	if err != nil {
		h.logger.Warn("POST /smart-booking - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, smartBooking.ErrInvalidInput):
			h.logger.Warn("POST /smart-booking - Invalid input: customer_id=%d, error=%v", customerID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, smartBooking.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, smartBooking.ErrNoQualifiedBeautician):
			h.logger.Info("POST /smart-booking - No qualified beautician: services=%v", req.ServiceIDs)
			handlers.RespondUnprocessable(w, handlers.CodeNoQualifiedBeautician, msgNoQualified)

		case errors.Is(err, smartBooking.ErrNoAvailability):
			h.logger.Info("POST /smart-booking - No availability: services=%v, date=%s", req.ServiceIDs, req.Date)
			handlers.RespondUnprocessable(w, handlers.CodeNoAvailability, msgNoAvailability)

		case errors.Is(err, smartBooking.ErrConflict):
			h.logger.Warn("POST /smart-booking - Slot conflict: customer_id=%d, date=%s", customerID, req.Date)
			handlers.RespondConflict(w, msgConflict)

		case errors.Is(err, smartBooking.ErrUpstream):
			h.logger.Error("POST /smart-booking - Upstream unavailable: %v", err)
			handlers.RespondServiceUnavailable(w, msgUpstream)

		default:
			h.logger.Error("POST /smart-booking - Failed to book: customer_id=%d, error=%v", customerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /smart-booking - Appointment created: appointment_id=%d, customer_id=%d, beautician_id=%d, start=%s",
		result.ID, customerID, result.BeauticianID, result.StartTime)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
