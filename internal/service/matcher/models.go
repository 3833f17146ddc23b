package matcher

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Request запрос на подбор мастеров
type Request struct {
	ServiceIDs []int64
	Date       time.Time
	BranchID   *int64 // nil = любой филиал

	// NotBefore отсекает слоты, которые уже начались (для сегодняшней даты)
	NotBefore *types.TimeString
}

// Candidate квалифицированный мастер и его свободные слоты на дату
type Candidate struct {
	Beautician *domain.Beautician
	Slots      []domain.Slot
}

// EarliestSlot самый ранний слот кандидата
func (c Candidate) EarliestSlot() (domain.Slot, bool) {
	if len(c.Slots) == 0 {
		return domain.Slot{}, false
	}
	return c.Slots[0], true
}

// Result результат подбора
type Result struct {
	Services      []*domain.Service
	TotalDuration int
	TotalPrice    float64
	Candidates    []Candidate // отсортированы по ID мастера, у каждого >= 1 слота
}
