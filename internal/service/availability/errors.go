package availability

import "errors"

var (
	// ErrInvalidDuration возвращается при неположительной суммарной длительности услуг
	ErrInvalidDuration = errors.New("availability: total duration must be positive")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("availability: invalid input data")

	// ErrOutsideWorkingHours слот не помещается в рабочие окна мастера
	ErrOutsideWorkingHours = errors.New("availability: slot is outside working hours")

	// ErrSlotTaken слот пересекается с существующей записью
	ErrSlotTaken = errors.New("availability: slot overlaps an existing appointment")

	// ErrInternal возвращается при ошибках хранилища
	ErrInternal = errors.New("availability: internal error")
)
