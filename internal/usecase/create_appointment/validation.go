package create_appointment

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, maxServices int, now time.Time) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if req.BeauticianID <= 0 {
		return fmt.Errorf("%w: beauticianID must be positive", ErrInvalidInput)
	}

	if len(req.ServiceIDs) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}

	if maxServices > 0 && len(req.ServiceIDs) > maxServices {
		return fmt.Errorf("%w: at most %d services per booking", ErrInvalidInput, maxServices)
	}

	if req.BranchID != nil && *req.BranchID <= 0 {
		return fmt.Errorf("%w: branchID must be positive", ErrInvalidInput)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > domain.MaxNameLength {
		return fmt.Errorf("%w: name is too long", ErrInvalidInput)
	}

	if !domain.IsValidEmail(strings.TrimSpace(req.Email)) {
		return fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes are too long", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: start time is required", ErrInvalidInput)
	}

	if domain.IsDateInPast(req.Date, now) {
		return ErrInvalidDate
	}

	// Сегодня нельзя записаться на время, которое уже наступило
	if domain.SameDay(req.Date, now) && req.StartTime.IsBefore(types.NewTimeString(now)) {
		return fmt.Errorf("%w: start time %s has already passed", ErrInvalidDate, req.StartTime)
	}

	return nil
}
