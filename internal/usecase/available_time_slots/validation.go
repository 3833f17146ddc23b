package available_time_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, now time.Time) error {
	if req.BeauticianID <= 0 {
		return fmt.Errorf("%w: beauticianID must be positive", ErrInvalidInput)
	}

	if req.TotalDuration <= 0 {
		return fmt.Errorf("%w: total duration must be positive", ErrInvalidInput)
	}

	if req.TotalDuration > domain.MaxAppointmentMinutes {
		return fmt.Errorf("%w: total duration exceeds %d minutes", ErrInvalidInput, domain.MaxAppointmentMinutes)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if domain.IsDateInPast(req.Date, now) {
		return ErrInvalidDate
	}

	return nil
}
