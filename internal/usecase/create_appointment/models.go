package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Request модель запроса на запись к выбранному мастеру в выбранное время
type Request struct {
	CustomerID   int64
	BeauticianID int64
	ServiceIDs   []int64
	BranchID     *int64
	Date         time.Time
	StartTime    types.TimeString
	Name         string
	Email        string
	Notes        *string
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
