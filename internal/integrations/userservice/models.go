package userservice

import "github.com/m04kA/SMC-SalonBooking/internal/domain"

// User модель пользователя из UserService.
// Схема свободная: любое из полей имени может быть пустым.
type User struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	BranchID *int64 `json:"branch_id,omitempty"`
}

// ToBeautician конвертирует пользователя в доменного мастера
func (u *User) ToBeautician() *domain.Beautician {
	return &domain.Beautician{
		ID:       u.ID,
		FullName: u.FullName,
		Username: u.Username,
		Email:    u.Email,
		BranchID: u.BranchID,
	}
}

// ErrorResponse модель ошибки от UserService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
