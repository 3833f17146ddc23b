package bookingapi

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// PreviewQuery параметры превью подбора
type PreviewQuery struct {
	ServiceIDs []int64
	Date       time.Time
	BranchID   *int64
}

// Recommendation лучший мастер и самый ранний слот
type Recommendation struct {
	BeauticianID   int64            `json:"beauticianId"`
	BeauticianName string           `json:"beauticianName"`
	Date           string           `json:"date"`
	StartTime      types.TimeString `json:"startTime"`
	EndTime        types.TimeString `json:"endTime"`
	TotalDuration  int              `json:"totalDuration"`
	TotalPrice     float64          `json:"totalPrice"`
}

// Slot свободный слот
type Slot struct {
	ID        string           `json:"id"`
	StartTime types.TimeString `json:"startTime"`
	EndTime   types.TimeString `json:"endTime"`
}

// Beautician мастер со свободными слотами
type Beautician struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Slots []Slot `json:"slots"`
}

// BeauticianList ответ available-beauticians
type BeauticianList struct {
	Date          string       `json:"date"`
	TotalDuration int          `json:"totalDuration"`
	TotalPrice    float64      `json:"totalPrice"`
	Beauticians   []Beautician `json:"beauticians"`
}

type timeSlotsResponse struct {
	BeauticianID int64  `json:"beauticianId"`
	Date         string `json:"date"`
	Slots        []Slot `json:"slots"`
}

// SmartBookingRequest тело POST /smart-booking
type SmartBookingRequest struct {
	ServiceIDs []int64 `json:"serviceIds"`
	Date       string  `json:"date"`
	BranchID   *int64  `json:"branchId,omitempty"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Notes      *string `json:"notes,omitempty"`
}

// CreateAppointmentRequest тело POST /appointments
type CreateAppointmentRequest struct {
	BeauticianID int64   `json:"beauticianId"`
	ServiceIDs   []int64 `json:"serviceIds"`
	BranchID     *int64  `json:"branchId,omitempty"`
	Date         string  `json:"date"`
	StartTime    string  `json:"startTime"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Notes        *string `json:"notes,omitempty"`
}

// Appointment созданная запись
type Appointment struct {
	ID             int64            `json:"id"`
	CustomerID     int64            `json:"customerId"`
	BeauticianID   int64            `json:"beauticianId"`
	BeauticianName string           `json:"beauticianName"`
	BranchID       *int64           `json:"branchId,omitempty"`
	Date           string           `json:"date"`
	StartTime      types.TimeString `json:"startTime"`
	EndTime        types.TimeString `json:"endTime"`
	Status         string           `json:"status"`
	ServiceIDs     []int64          `json:"serviceIds"`
	Name           string           `json:"name"`
	Email          string           `json:"email"`
	TotalPrice     float64          `json:"totalPrice"`
	Notes          *string          `json:"notes,omitempty"`
	CreatedAt      string           `json:"createdAt"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
