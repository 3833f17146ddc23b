package available_beauticians

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("available_beauticians: invalid input data")

	// ErrInvalidDate возвращается, если дата в прошлом
	ErrInvalidDate = errors.New("available_beauticians: date is in the past")

	// ErrNoQualifiedBeautician никто не выполняет этот набор услуг
	ErrNoQualifiedBeautician = errors.New("available_beauticians: no beautician offers the requested services")

	// ErrNoAvailability квалифицированные мастера заняты весь день
	ErrNoAvailability = errors.New("available_beauticians: no availability on this date")

	// ErrUpstream справочник мастеров недоступен
	ErrUpstream = errors.New("available_beauticians: upstream unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("available_beauticians: internal error")
)
