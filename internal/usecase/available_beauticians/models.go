package available_beauticians

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// Request модель запроса списка свободных мастеров (ручной режим)
type Request struct {
	ServiceIDs []int64
	Date       time.Time
	BranchID   *int64
}

// Beautician мастер со свободными слотами
type Beautician struct {
	ID    int64
	Name  string
	Slots []domain.Slot
}

// Response модель ответа
type Response struct {
	TotalDuration int
	TotalPrice    float64
	Beauticians   []Beautician
}
