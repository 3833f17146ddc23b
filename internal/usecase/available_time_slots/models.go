package available_time_slots

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Request модель запроса на получение свободных слотов мастера
type Request struct {
	BeauticianID  int64
	TotalDuration int       // Суммарная длительность выбранных услуг в минутах
	Date          time.Time // Дата (без времени)
}

// Response модель ответа со списком слотов
type Response struct {
	BeauticianID int64
	Date         time.Time
	Slots        []Slot
}

// Slot модель временного слота
type Slot struct {
	ID        string // "HH:MM-HH:MM", стабилен для одной и той же пары времени
	StartTime types.TimeString
	EndTime   types.TimeString
}
