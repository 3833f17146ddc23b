package domain

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "SCHEDULED"
	StatusConfirmed AppointmentStatus = "CONFIRMED"
	StatusCompleted AppointmentStatus = "COMPLETED"
	StatusCancelled AppointmentStatus = "CANCELLED"
)

// Appointment represents a booked visit in the ledger
type Appointment struct {
	ID           int64
	CustomerID   int64
	BeauticianID *int64 // nil until a beautician is assigned
	BranchID     *int64 // nil = any branch
	Date         time.Time
	StartTime    types.TimeString
	EndTime      types.TimeString
	Status       AppointmentStatus
	ServiceIDs   []int64

	// Denormalized contact snapshot at booking time
	Name       string
	Email      string
	TotalPrice float64
	Notes      *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment still occupies the beautician's time
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled
}

// IsTerminal returns true if the status can no longer change
func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusCompleted || a.Status == StatusCancelled
}

// CanBeCancelled returns true if the appointment can be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusScheduled || a.Status == StatusConfirmed
}

// CanTransitionTo checks staff-driven status transitions
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	switch a.Status {
	case StatusScheduled:
		return next == StatusConfirmed || next == StatusCompleted || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusCancelled
	default:
		return false
	}
}

// DurationMinutes returns the length of the appointment
func (a *Appointment) DurationMinutes() int {
	return a.StartTime.MinutesUntil(a.EndTime)
}

// Window returns the occupied [start, end) interval
func (a *Appointment) Window() TimeWindow {
	return TimeWindow{Start: a.StartTime, End: a.EndTime}
}

// Overlaps returns true if both appointments are active, belong to the same beautician and date
// and their [start, end) intervals intersect
func (a *Appointment) Overlaps(other *Appointment) bool {
	if !a.IsActive() || !other.IsActive() {
		return false
	}
	if a.BeauticianID == nil || other.BeauticianID == nil || *a.BeauticianID != *other.BeauticianID {
		return false
	}
	if !SameDay(a.Date, other.Date) {
		return false
	}
	return a.Window().Overlaps(other.Window())
}

// AppointmentFilter фильтр выборки записей
type AppointmentFilter struct {
	CustomerID      *int64
	BeauticianID    *int64
	Date            *time.Time
	Status          *AppointmentStatus
	IncludeInactive bool // включать ли отмененные записи
}

// ValidStatuses все допустимые статусы
var ValidStatuses = []AppointmentStatus{
	StatusScheduled,
	StatusConfirmed,
	StatusCompleted,
	StatusCancelled,
}

// ParseAppointmentStatus конвертирует строку в статус с валидацией
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	for _, status := range ValidStatuses {
		if string(status) == s {
			return status, true
		}
	}
	return "", false
}

// SameDay проверяет, что две даты относятся к одному календарному дню
func SameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// DateOnly обнуляет время, сохраняя часовой пояс
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsDateInPast true, если календарная дата date раньше календарной даты now.
// Сравниваются только год/месяц/день, now должен быть уже в часовом поясе салона.
func IsDateInPast(date, now time.Time) bool {
	dy, dm, dd := date.Date()
	ny, nm, nd := now.Date()
	return time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC).Before(time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC))
}
