package userservice

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("userservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("userservice client: invalid response")

	// ErrUnavailable возвращается, когда сервис недоступен (сеть, таймаут, 5xx)
	ErrUnavailable = errors.New("userservice client: service unavailable")
)
