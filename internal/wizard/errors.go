package wizard

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed мастер уже завершен (запись создана или отменена)
	ErrClosed = errors.New("wizard: closed")

	// ErrFirstStep назад с первого шага нельзя
	ErrFirstStep = errors.New("wizard: already at the first step")

	// ErrLastStep дальше подтверждения только Submit
	ErrLastStep = errors.New("wizard: already at the confirm step")

	// ErrNotOnConfirm Submit доступен только на шаге подтверждения
	ErrNotOnConfirm = errors.New("wizard: submit is only allowed on the confirm step")

	// ErrSubmitInProgress предыдущий Submit еще не завершился
	ErrSubmitInProgress = errors.New("wizard: submit already in progress")

	// ErrSuperseded результат запроса устарел: пока он выполнялся, стартовал более новый
	// или изменились входные данные. Результат отброшен.
	ErrSuperseded = errors.New("wizard: result superseded by a newer request")

	// Категории ошибок сервиса записи (через UserError)
	ErrNoAvailability        = errors.New("wizard: no availability")
	ErrNoQualifiedBeautician = errors.New("wizard: no qualified beautician")
	ErrConflict              = errors.New("wizard: slot conflict")
	ErrUpstream              = errors.New("wizard: booking service unavailable")
	ErrRejected              = errors.New("wizard: request rejected")
)

// ValidationError поле черновика не прошло проверку шага
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("wizard: %s: %s", e.Field, e.Message)
}

// UserError ошибка с текстом, готовым для показа пользователю
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string {
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}
