package wizard

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/integrations/bookingapi"
)

// RefreshRecommendation запрашивает лучшего мастера и время (auto).
// Возвращает ErrSuperseded, если за время запроса он устарел.
func (w *Wizard) RefreshRecommendation(ctx context.Context) error {
	w.mu.Lock()
	if err := w.previewReady(false); err != nil {
		w.mu.Unlock()
		return err
	}
	q := w.previewQuery()
	ctx, seq := w.begin(ctx, queryRecommendation)
	w.mu.Unlock()

	rec, err := w.api.FindBestBeautician(ctx, q)

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.finish(queryRecommendation, seq) {
		return ErrSuperseded
	}
	if err != nil {
		w.recommendation = nil
		return w.userError("RefreshRecommendation", err)
	}

	w.recommendation = rec
	return nil
}

// RefreshBeauticians запрашивает мастеров со свободным временем (manual)
func (w *Wizard) RefreshBeauticians(ctx context.Context) error {
	w.mu.Lock()
	if err := w.previewReady(false); err != nil {
		w.mu.Unlock()
		return err
	}
	q := w.previewQuery()
	ctx, seq := w.begin(ctx, queryBeauticians)
	w.mu.Unlock()

	list, err := w.api.AvailableBeauticians(ctx, q)

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.finish(queryBeauticians, seq) {
		return ErrSuperseded
	}
	if err != nil {
		w.beauticians = nil
		return w.userError("RefreshBeauticians", err)
	}

	w.beauticians = list.Beauticians
	return nil
}

// RefreshSlots запрашивает свободные слоты выбранного мастера (manual)
func (w *Wizard) RefreshSlots(ctx context.Context) error {
	w.mu.Lock()
	if err := w.previewReady(true); err != nil {
		w.mu.Unlock()
		return err
	}
	beauticianID := *w.draft.BeauticianID
	duration := w.draft.TotalDuration()
	date := w.draft.Date
	ctx, seq := w.begin(ctx, querySlots)
	w.mu.Unlock()

	slots, err := w.api.AvailableTimeSlots(ctx, beauticianID, duration, date)

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.finish(querySlots, seq) {
		return ErrSuperseded
	}
	if err != nil {
		w.slots = nil
		return w.userError("RefreshSlots", err)
	}

	w.slots = slots
	return nil
}

// previewReady проверяет, что для превью хватает данных
func (w *Wizard) previewReady(needBeautician bool) error {
	if w.closed {
		return ErrClosed
	}
	if len(w.draft.Services) == 0 {
		return &ValidationError{Field: "services", Message: msgSelectService}
	}
	if w.draft.Date.IsZero() {
		return &ValidationError{Field: "date", Message: msgSelectDate}
	}
	if needBeautician && w.draft.BeauticianID == nil {
		return &ValidationError{Field: "beautician", Message: msgSelectBeautician}
	}
	return nil
}

func (w *Wizard) previewQuery() bookingapi.PreviewQuery {
	q := bookingapi.PreviewQuery{
		ServiceIDs: w.draft.ServiceIDs(),
		Date:       w.draft.Date,
	}
	if w.draft.BranchID != nil {
		id := *w.draft.BranchID
		q.BranchID = &id
	}
	return q
}

// begin регистрирует новый запрос вида kind, отменяя предыдущий
func (w *Wizard) begin(parent context.Context, kind queryKind) (context.Context, uint64) {
	w.abort(kind)
	ctx, cancel := context.WithCancel(parent)
	w.cancel[kind] = cancel
	return ctx, w.seq[kind]
}

// finish true, если запрос seq все еще последний для своего вида
func (w *Wizard) finish(kind queryKind, seq uint64) bool {
	if w.seq[kind] != seq {
		return false
	}
	if w.cancel[kind] != nil {
		w.cancel[kind]()
		w.cancel[kind] = nil
	}
	return true
}
