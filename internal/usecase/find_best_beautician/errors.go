package find_best_beautician

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("find_best_beautician: invalid input data")

	// ErrInvalidDate возвращается, если дата в прошлом
	ErrInvalidDate = errors.New("find_best_beautician: date is in the past")

	// ErrNoQualifiedBeautician никто не выполняет этот набор услуг
	ErrNoQualifiedBeautician = errors.New("find_best_beautician: no beautician offers the requested services")

	// ErrNoAvailability свободного времени на дату нет
	ErrNoAvailability = errors.New("find_best_beautician: no availability on this date")

	// ErrUpstream справочник мастеров недоступен
	ErrUpstream = errors.New("find_best_beautician: upstream unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("find_best_beautician: internal error")
)
