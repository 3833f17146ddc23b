package smart_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("smart_booking: invalid input data")

	// ErrInvalidDate возвращается, если дата в прошлом
	ErrInvalidDate = errors.New("smart_booking: date is in the past")

	// ErrNoQualifiedBeautician никто не выполняет этот набор услуг
	ErrNoQualifiedBeautician = errors.New("smart_booking: no beautician offers the requested services")

	// ErrNoAvailability свободного времени на дату нет
	ErrNoAvailability = errors.New("smart_booking: no availability on this date")

	// ErrConflict свободные слоты были, но их заняли раньше, чем мы успели записать
	ErrConflict = errors.New("smart_booking: slot was taken, please retry")

	// ErrUpstream справочник мастеров недоступен
	ErrUpstream = errors.New("smart_booking: upstream unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("smart_booking: internal error")

	// errSlotGone у кандидата не осталось слота после блокировки
	errSlotGone = errors.New("smart_booking: candidate has no free slot left")

	// errOutranked ранний слот кандидата заняли, другой кандидат теперь раньше
	errOutranked = errors.New("smart_booking: candidate was outranked after recompute")
)
