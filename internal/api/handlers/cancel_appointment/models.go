package cancel_appointment

import "github.com/m04kA/SMC-SalonBooking/internal/service/appointments/models"

// CancelAppointmentRequest HTTP request model. Тело может быть пустым.
type CancelAppointmentRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CancelAppointmentRequest) ToServiceRequest(actor models.Actor) *models.CancelRequest {
	return &models.CancelRequest{
		Actor:              actor,
		CancellationReason: r.CancellationReason,
	}
}
