package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	createAppointment "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	BeauticianID int64   `json:"beauticianId"`
	ServiceIDs   []int64 `json:"serviceIds"`
	BranchID     *int64  `json:"branchId,omitempty"`
	Date         string  `json:"date"`      // "2026-10-19"
	StartTime    string  `json:"startTime"` // "10:00"
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Notes        *string `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID             int64   `json:"id"`
	CustomerID     int64   `json:"customerId"`
	BeauticianID   int64   `json:"beauticianId"`
	BeauticianName string  `json:"beauticianName"`
	BranchID       *int64  `json:"branchId,omitempty"`
	Date           string  `json:"date"`
	StartTime      string  `json:"startTime"`
	EndTime        string  `json:"endTime"`
	Status         string  `json:"status"`
	ServiceIDs     []int64 `json:"serviceIds"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	TotalPrice     float64 `json:"totalPrice"`
	Notes          *string `json:"notes,omitempty"`
	CreatedAt      string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// errDate/errTime позволяют handler-у различить, какое поле не распарсилось.
func (r *CreateAppointmentRequest) ToUseCaseRequest(customerID int64) (req *createAppointment.Request, errDate, errTime error) {
	date, errDate := time.Parse(domain.DateFormat, r.Date)
	if errDate != nil {
		return nil, errDate, nil
	}

	startTime, errTime := types.NewTimeStringFromString(r.StartTime)
	if errTime != nil {
		return nil, nil, errTime
	}

	return &createAppointment.Request{
		CustomerID:   customerID,
		BeauticianID: r.BeauticianID,
		ServiceIDs:   r.ServiceIDs,
		BranchID:     r.BranchID,
		Date:         date,
		StartTime:    startTime,
		Name:         r.Name,
		Email:        r.Email,
		Notes:        r.Notes,
	}, nil, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:             resp.ID,
		CustomerID:     resp.CustomerID,
		BeauticianID:   resp.BeauticianID,
		BeauticianName: resp.BeauticianName,
		BranchID:       resp.BranchID,
		Date:           resp.Date.Format(domain.DateFormat),
		StartTime:      resp.StartTime.String(),
		EndTime:        resp.EndTime.String(),
		Status:         resp.Status,
		ServiceIDs:     resp.ServiceIDs,
		Name:           resp.Name,
		Email:          resp.Email,
		TotalPrice:     resp.TotalPrice,
		Notes:          resp.Notes,
		CreatedAt:      resp.CreatedAt.Format(time.RFC3339),
	}
}
