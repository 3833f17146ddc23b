package create_appointment

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInvalidDate возвращается, если дата или время в прошлом
	ErrInvalidDate = errors.New("create_appointment: date is in the past")

	// ErrNoQualifiedBeautician мастер не выполняет весь набор услуг или работает в другом филиале
	ErrNoQualifiedBeautician = errors.New("create_appointment: beautician does not offer the requested services")

	// ErrNoAvailability слот не помещается в рабочее время мастера
	ErrNoAvailability = errors.New("create_appointment: slot is outside working hours")

	// ErrConflict слот пересекается с существующей записью
	ErrConflict = errors.New("create_appointment: slot was taken, please pick another time")

	// ErrUpstream справочник мастеров недоступен
	ErrUpstream = errors.New("create_appointment: upstream unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
