package wizard

import (
	"context"
	"errors"
	"strings"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/bookingapi"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

const msgGenericRetry = "не удалось выполнить запрос, попробуйте еще раз"

// Submit создает запись с шага Confirm.
//
// auto: сервер заново подбирает мастера и время в момент записи.
// manual: время начала берется из выбранного слота.
// При успехе мастер сбрасывается и закрывается. При ошибке остается на Confirm
// с сохраненными данными и возвращает *UserError с текстом для пользователя.
// Конфликт сбрасывает рекомендацию (и слоты), превью нужно перезапросить.
func (w *Wizard) Submit(ctx context.Context) (*bookingapi.Appointment, error) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil, ErrClosed
	}
	if w.step != StepConfirm {
		w.mu.Unlock()
		return nil, ErrNotOnConfirm
	}
	if w.submitting {
		w.mu.Unlock()
		return nil, ErrSubmitInProgress
	}
	if w.customerID <= 0 {
		w.mu.Unlock()
		return nil, &ValidationError{Field: "customer", Message: msgMissingCustomer}
	}
	for step := StepSelectServices; step < StepConfirm; step++ {
		if err := w.guard(step); err != nil {
			w.mu.Unlock()
			return nil, err
		}
	}

	draft := w.draft.clone()
	var start types.TimeString
	if draft.Mode == ModeManual {
		var err error
		start, err = slotStart(draft.SlotID, draft.TotalDuration())
		if err != nil {
			w.mu.Unlock()
			return nil, err
		}
	}
	w.submitting = true
	w.mu.Unlock()

	appointment, err := w.commit(ctx, &draft, start)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.submitting = false

	if err != nil {
		userErr := w.userError("Submit", err)
		if errors.Is(userErr, ErrConflict) {
			w.invalidate(queryRecommendation, querySlots)
			if draft.Mode == ModeManual {
				w.draft.SlotID = ""
			}
		}
		return nil, userErr
	}

	w.logger.Info("Wizard: customer=%d booked appointment id=%d (%s mode)", w.customerID, appointment.ID, draft.Mode)
	w.reset()
	w.closed = true
	return appointment, nil
}

func (w *Wizard) commit(ctx context.Context, d *Draft, start types.TimeString) (*bookingapi.Appointment, error) {
	date := d.Date.Format(domain.DateFormat)

	if d.Mode == ModeAuto {
		return w.api.SmartBooking(ctx, w.customerID, &bookingapi.SmartBookingRequest{
			ServiceIDs: d.ServiceIDs(),
			Date:       date,
			BranchID:   d.BranchID,
			Name:       d.Name,
			Email:      d.Email,
			Notes:      d.Notes,
		})
	}

	return w.api.CreateAppointment(ctx, w.customerID, &bookingapi.CreateAppointmentRequest{
		BeauticianID: *d.BeauticianID,
		ServiceIDs:   d.ServiceIDs(),
		BranchID:     d.BranchID,
		Date:         date,
		StartTime:    start.String(),
		Name:         d.Name,
		Email:        d.Email,
		Notes:        d.Notes,
	})
}

// slotStart разбирает ID слота "HH:MM-HH:MM" и сверяет его длину с длительностью услуг
func slotStart(slotID string, totalDuration int) (types.TimeString, error) {
	rawStart, rawEnd, ok := strings.Cut(slotID, "-")
	if !ok {
		return types.TimeString{}, &ValidationError{Field: "slot", Message: msgUnknownSlot}
	}

	start, err := types.NewTimeStringFromString(rawStart)
	if err != nil {
		return types.TimeString{}, &ValidationError{Field: "slot", Message: msgUnknownSlot}
	}
	end, err := types.NewTimeStringFromString(rawEnd)
	if err != nil {
		return types.TimeString{}, &ValidationError{Field: "slot", Message: msgUnknownSlot}
	}

	if start.MinutesUntil(end) != totalDuration {
		return types.TimeString{}, &ValidationError{Field: "slot", Message: msgSlotDurationDrift}
	}
	return start, nil
}

// userError переводит ошибку API в текст для пользователя.
// Сообщение сервера показывается как есть, если оно есть.
func (w *Wizard) userError(op string, err error) error {
	apiErr, ok := bookingapi.AsAPIError(err)
	if !ok {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		w.logger.Error("Wizard: %s failed: %v", op, err)
		return &UserError{Message: msgGenericRetry, Err: ErrUpstream}
	}

	w.logger.Warn("Wizard: %s rejected: %v", op, apiErr)

	message := apiErr.Message
	if message == "" {
		message = msgGenericRetry
	}
	return &UserError{Message: message, Err: categorize(apiErr)}
}

func categorize(apiErr *bookingapi.APIError) error {
	switch apiErr.Code {
	case bookingapi.CodeNoAvailability:
		return ErrNoAvailability
	case bookingapi.CodeNoQualifiedBeautician:
		return ErrNoQualifiedBeautician
	case bookingapi.CodeSlotConflict:
		return ErrConflict
	case bookingapi.CodeUpstreamUnavailable:
		return ErrUpstream
	}
	if apiErr.Status >= 500 {
		return ErrUpstream
	}
	return ErrRejected
}
