package wizard

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// Step шаг мастера записи
type Step int

const (
	StepSelectServices Step = iota
	StepSelectMode
	StepSelectLocation
	StepSelectSchedule
	StepEnterDetails
	StepConfirm
)

var stepNames = [...]string{
	"select_services",
	"select_mode",
	"select_location",
	"select_schedule",
	"enter_details",
	"confirm",
}

func (s Step) String() string {
	if s < StepSelectServices || s > StepConfirm {
		return "unknown"
	}
	return stepNames[s]
}

// Mode режим записи
type Mode string

const (
	ModeAuto   Mode = "auto"   // мастера и время подбирает сервер
	ModeManual Mode = "manual" // клиент выбирает мастера и слот сам
)

// IsValid проверяет, что режим выбран
func (m Mode) IsValid() bool {
	return m == ModeAuto || m == ModeManual
}

// Draft данные, введенные пользователем
type Draft struct {
	Services     []*domain.Service
	Mode         Mode
	BranchID     *int64
	BeauticianID *int64
	Date         time.Time
	SlotID       string
	Name         string
	Email        string
	Notes        *string
}

// ServiceIDs ID выбранных услуг в порядке выбора
func (d *Draft) ServiceIDs() []int64 {
	ids := make([]int64, 0, len(d.Services))
	for _, s := range d.Services {
		ids = append(ids, s.ID)
	}
	return ids
}

// TotalDuration суммарная длительность выбранных услуг
func (d *Draft) TotalDuration() int {
	return domain.TotalDuration(d.Services)
}

// TotalPrice суммарная стоимость выбранных услуг
func (d *Draft) TotalPrice() float64 {
	return domain.TotalPrice(d.Services)
}

func (d *Draft) clone() Draft {
	c := *d
	c.Services = append([]*domain.Service(nil), d.Services...)
	return c
}
