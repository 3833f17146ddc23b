package domain

import "regexp"

// Default configuration values
const (
	DefaultSlotStepMinutes       = 15
	DefaultMaxServicesPerBooking = 10
	DefaultTimezone              = "UTC"
)

// Business validation constants
const (
	MaxAppointmentMinutes       = 12 * 60
	MaxNameLength               = 100 // символов, appointments.name VARCHAR(100)
	MaxEmailLength              = 254
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Roles from the user directory
const (
	RoleBeautician = "beautician"
	RoleStaff      = "staff"
	RoleAdmin      = "admin"
	RoleCustomer   = "customer"
)

// emailPattern упрощенная проверка email, совпадающая с клиентской валидацией формы
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail проверяет email по шаблону формы бронирования
func IsValidEmail(email string) bool {
	return len(email) <= MaxEmailLength && emailPattern.MatchString(email)
}

// IsStaffRole true для ролей, которым доступны действия персонала
func IsStaffRole(role string) bool {
	return role == RoleStaff || role == RoleAdmin
}
