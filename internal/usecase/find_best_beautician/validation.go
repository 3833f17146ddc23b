package find_best_beautician

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, maxServices int, now time.Time) error {
	if len(req.ServiceIDs) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}

	if maxServices > 0 && len(req.ServiceIDs) > maxServices {
		return fmt.Errorf("%w: at most %d services per booking", ErrInvalidInput, maxServices)
	}

	if req.BranchID != nil && *req.BranchID <= 0 {
		return fmt.Errorf("%w: branchID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if domain.IsDateInPast(req.Date, now) {
		return ErrInvalidDate
	}

	return nil
}
