package available_time_slots

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("available_time_slots: invalid input data")

	// ErrInvalidDate возвращается, если дата в прошлом
	ErrInvalidDate = errors.New("available_time_slots: date is in the past")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("available_time_slots: internal error")
)
