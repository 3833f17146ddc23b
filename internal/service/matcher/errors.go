package matcher

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("matcher: invalid input data")

	// ErrUnknownService одна из услуг не найдена или неактивна
	ErrUnknownService = errors.New("matcher: unknown or inactive service")

	// ErrNoQualifiedBeautician ни один мастер не выполняет весь набор услуг
	ErrNoQualifiedBeautician = errors.New("matcher: no beautician offers the requested services")

	// ErrNoAvailability квалифицированные мастера есть, но свободного времени нет
	ErrNoAvailability = errors.New("matcher: no free time for the requested date")

	// ErrUpstream справочник мастеров недоступен
	ErrUpstream = errors.New("matcher: beautician directory unavailable")

	// ErrInternal возвращается при ошибках хранилища
	ErrInternal = errors.New("matcher: internal error")
)
