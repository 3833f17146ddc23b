package bookingapi

import (
	"errors"
	"fmt"
)

// Машинные коды ошибок сервиса записи
const (
	CodeValidation            = "validation_error"
	CodeNoQualifiedBeautician = "no_qualified_beautician"
	CodeNoAvailability        = "no_availability"
	CodeSlotConflict          = "slot_conflict"
	CodeUpstreamUnavailable   = "upstream_unavailable"
)

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("bookingapi client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("bookingapi client: invalid response")

	// ErrUnavailable возвращается, когда сервис недоступен (сеть, таймаут)
	ErrUnavailable = errors.New("bookingapi client: service unavailable")
)

// APIError ошибка, которую вернул сервис записи (тело {"code","message"})
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bookingapi: status %d, code %q: %s", e.Status, e.Code, e.Message)
}

// IsConflict слот заняли между превью и записью
func (e *APIError) IsConflict() bool {
	return e.Code == CodeSlotConflict
}

// AsAPIError извлекает APIError из цепочки ошибок
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
