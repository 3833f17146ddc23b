package smart_booking

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Request модель запроса на умное бронирование.
// Мастер и время не передаются: сервер подбирает их заново в момент записи.
type Request struct {
	CustomerID int64
	ServiceIDs []int64
	Date       time.Time
	BranchID   *int64
	Name       string
	Email      string
	Notes      *string
}

// Response модель ответа с созданной записью
type Response struct {
	ID             int64
	CustomerID     int64
	BeauticianID   int64
	BeauticianName string
	BranchID       *int64
	Date           time.Time
	StartTime      types.TimeString
	EndTime        types.TimeString
	Status         string
	ServiceIDs     []int64
	Name           string
	Email          string
	TotalPrice     float64
	Notes          *string
	CreatedAt      time.Time
}
