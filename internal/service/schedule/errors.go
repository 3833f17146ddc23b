package schedule

import "errors"

var (
	// ErrAccessDenied менять расписание может персонал или сам мастер
	ErrAccessDenied = errors.New("schedule: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("schedule: invalid input data")

	// ErrOverlappingWindows окна одного дня пересекаются
	ErrOverlappingWindows = errors.New("schedule: availability windows overlap")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("schedule: internal error")
)
