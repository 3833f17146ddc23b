package smart_booking

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	smartBooking "github.com/m04kA/SMC-SalonBooking/internal/usecase/smart_booking"
)

// SmartBookingRequest HTTP request model.
// Мастера и время выбирает сервер, клиент передает только услуги и дату.
type SmartBookingRequest struct {
	ServiceIDs []int64 `json:"serviceIds"`
	Date       string  `json:"date"` // "2026-10-19"
	BranchID   *int64  `json:"branchId,omitempty"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Notes      *string `json:"notes,omitempty"`
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

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *SmartBookingRequest) ToUseCaseRequest(customerID int64) (*smartBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	return &smartBooking.Request{
		CustomerID: customerID,
		ServiceIDs: r.ServiceIDs,
		Date:       date,
		BranchID:   r.BranchID,
		Name:       r.Name,
		Email:      r.Email,
		Notes:      r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *smartBooking.Response) *AppointmentResponse {
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
