package availability

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// FreeWindows вычитает занятые интервалы из окон недельного шаблона.
//
// Окна шаблона сортируются и склеиваются (пересекающиеся или смежные строки
// считаются одной сменой), занятые интервалы сортируются по началу.
// Для каждого окна [a,b) результат - промежутки между занятыми интервалами,
// а также до первого и после последнего.
//
// Примеры:
// - окно 09:00-17:00, занято 10:00-11:00 → 09:00-10:00, 11:00-17:00
// - окно 09:00-10:00, занято 09:00-09:45 → 09:45-10:00
// - окно 09:00-10:00, занято 08:00-12:00 → пусто
func FreeWindows(template []domain.TimeWindow, busy []domain.TimeWindow) []domain.TimeWindow {
	windows := mergeWindows(template)
	if len(windows) == 0 {
		return []domain.TimeWindow{}
	}

	sortedBusy := make([]domain.TimeWindow, 0, len(busy))
	for _, b := range busy {
		if b.IsValid() {
			sortedBusy = append(sortedBusy, b)
		}
	}
	sortWindows(sortedBusy)

	free := make([]domain.TimeWindow, 0, len(windows))
	for _, w := range windows {
		cursor := w.Start

		for _, b := range sortedBusy {
			if !b.Overlaps(w) {
				continue
			}
			if b.Start.IsAfter(cursor) {
				free = append(free, domain.TimeWindow{Start: cursor, End: b.Start})
			}
			if b.End.IsAfter(cursor) {
				cursor = b.End
			}
			if !cursor.IsBefore(w.End) {
				break
			}
		}

		if cursor.IsBefore(w.End) {
			free = append(free, domain.TimeWindow{Start: cursor, End: w.End})
		}
	}

	return free
}

// BuildSlots нарезает свободные окна на слоты длительностью durationMinutes.
//
// stepMinutes > 0: перебираются все начала с шагом stepMinutes от начала окна.
// stepMinutes = 0: только самое раннее начало в каждом окне.
// Окна короче durationMinutes отбрасываются. Результат упорядочен по началу.
func BuildSlots(free []domain.TimeWindow, durationMinutes, stepMinutes int) []domain.Slot {
	slots := make([]domain.Slot, 0)
	if durationMinutes <= 0 {
		return slots
	}

	for _, w := range free {
		if w.DurationMinutes() < durationMinutes {
			continue
		}

		for offset := 0; offset+durationMinutes <= w.DurationMinutes(); offset += stepMinutes {
			start, err := w.Start.AddMinutes(offset)
			if err != nil {
				break
			}
			end, err := start.AddMinutes(durationMinutes)
			if err != nil {
				break
			}
			slots = append(slots, domain.Slot{StartTime: start, EndTime: end})

			if stepMinutes <= 0 {
				break
			}
		}
	}

	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].StartTime.IsBefore(slots[j].StartTime)
	})

	return slots
}

// TemplateWindows извлекает окна шаблона одного дня
func TemplateWindows(rows []domain.BeauticianAvailability) []domain.TimeWindow {
	windows := make([]domain.TimeWindow, 0, len(rows))
	for _, row := range rows {
		windows = append(windows, row.Window())
	}
	return windows
}

// BusyWindows извлекает занятые интервалы из активных записей
func BusyWindows(appointments []*domain.Appointment) []domain.TimeWindow {
	busy := make([]domain.TimeWindow, 0, len(appointments))
	for _, a := range appointments {
		if a == nil || !a.IsActive() {
			continue
		}
		busy = append(busy, a.Window())
	}
	return busy
}

// FitsTemplate true, если слот целиком лежит внутри одного из окон шаблона
func FitsTemplate(template []domain.TimeWindow, slot domain.TimeWindow) bool {
	for _, w := range mergeWindows(template) {
		if w.Contains(slot) {
			return true
		}
	}
	return false
}

// OverlapsAny true, если слот пересекается хотя бы с одним активным интервалом
func OverlapsAny(busy []domain.TimeWindow, slot domain.TimeWindow) bool {
	for _, b := range busy {
		if b.Overlaps(slot) {
			return true
		}
	}
	return false
}

// mergeWindows сортирует окна и склеивает пересекающиеся/смежные
func mergeWindows(windows []domain.TimeWindow) []domain.TimeWindow {
	valid := make([]domain.TimeWindow, 0, len(windows))
	for _, w := range windows {
		if w.IsValid() {
			valid = append(valid, w)
		}
	}
	sortWindows(valid)

	merged := make([]domain.TimeWindow, 0, len(valid))
	for _, w := range valid {
		if n := len(merged); n > 0 && !w.Start.IsAfter(merged[n-1].End) {
			if w.End.IsAfter(merged[n-1].End) {
				merged[n-1].End = w.End
			}
			continue
		}
		merged = append(merged, w)
	}
	return merged
}

func sortWindows(windows []domain.TimeWindow) {
	sort.SliceStable(windows, func(i, j int) bool {
		if windows[i].Start.Equal(windows[j].Start) {
			return windows[i].End.IsBefore(windows[j].End)
		}
		return windows[i].Start.IsBefore(windows[j].Start)
	})
}

// slotEnd конец слота или zero value при переполнении суток
func slotEnd(start types.TimeString, durationMinutes int) (types.TimeString, bool) {
	end, err := start.AddMinutes(durationMinutes)
	if err != nil {
		return types.TimeString{}, false
	}
	return end, true
}

// StartFloor самое раннее допустимое начало слота на дату.
// Для сегодняшней даты это текущее время, для будущих ограничения нет (false).
func StartFloor(date, now time.Time) (types.TimeString, bool) {
	if !domain.SameDay(date, now) {
		return types.TimeString{}, false
	}
	return types.NewTimeString(now), true
}

// DropBefore отбрасывает слоты, начинающиеся раньше from
func DropBefore(slots []domain.Slot, from types.TimeString) []domain.Slot {
	kept := make([]domain.Slot, 0, len(slots))
	for _, s := range slots {
		if !s.StartTime.IsBefore(from) {
			kept = append(kept, s)
		}
	}
	return kept
}
