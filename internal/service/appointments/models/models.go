package models

import (
	"errors"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// Actor кто выполняет действие (из заголовков шлюза)
type Actor struct {
	UserID int64
	Role   string
}

// IsStaff true для персонала салона
func (a Actor) IsStaff() bool {
	return domain.IsStaffRole(a.Role)
}

// CancelRequest запрос на отмену записи
type CancelRequest struct {
	Actor              Actor   `json:"-"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// UpdateStatusRequest запрос на смену статуса записи
type UpdateStatusRequest struct {
	Actor  Actor  `json:"-"`
	Status string `json:"status"`
}

// ListByCustomerRequest запрос на историю записей клиента
type ListByCustomerRequest struct {
	Actor      Actor
	CustomerID int64
	Status     *string
}

// ListByBeauticianRequest запрос на расписание мастера на день
type ListByBeauticianRequest struct {
	Actor        Actor
	BeauticianID int64
	Date         time.Time
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID           int64   `json:"id"`
	CustomerID   int64   `json:"customerId"`
	BeauticianID *int64  `json:"beauticianId,omitempty"`
	BranchID     *int64  `json:"branchId,omitempty"`
	Date         string  `json:"date"`      // "2026-10-19"
	StartTime    string  `json:"startTime"` // "10:00"
	EndTime      string  `json:"endTime"`
	Status       string  `json:"status"`
	ServiceIDs   []int64 `json:"serviceIds"`

	// Денормализованные данные клиента
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	TotalPrice float64 `json:"totalPrice"`
	Notes      *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // RFC 3339

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:                 a.ID,
		CustomerID:         a.CustomerID,
		BeauticianID:       a.BeauticianID,
		BranchID:           a.BranchID,
		Date:               a.Date.Format(domain.DateFormat),
		StartTime:          a.StartTime.String(),
		EndTime:            a.EndTime.String(),
		Status:             string(a.Status),
		ServiceIDs:         a.ServiceIDs,
		Name:               a.Name,
		Email:              a.Email,
		TotalPrice:         a.TotalPrice,
		Notes:              a.Notes,
		CancellationReason: a.CancellationReason,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}

	if a.CancelledAt != nil {
		cancelled := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelled
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}
	for _, a := range appointments {
		resp.Appointments = append(resp.Appointments, *FromDomainAppointment(a))
	}
	return resp
}

// ToDomainStatus конвертирует строку в статус записи (регистр не важен)
func ToDomainStatus(status string) (domain.AppointmentStatus, error) {
	switch s := domain.AppointmentStatus(strings.ToUpper(strings.TrimSpace(status))); s {
	case domain.StatusScheduled, domain.StatusConfirmed, domain.StatusCompleted, domain.StatusCancelled:
		return s, nil
	default:
		return "", ErrInvalidStatus
	}
}
