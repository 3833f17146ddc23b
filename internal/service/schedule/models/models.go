package models

import (
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// Request модели

// WindowRequest рабочее окно в формате "HH:MM"
type WindowRequest struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// ReplaceDayRequest запрос на замену расписания одного дня недели.
// Пустой список окон означает выходной.
type ReplaceDayRequest struct {
	UserID       int64           `json:"-"`
	Role         string          `json:"-"`
	BeauticianID int64           `json:"-"`
	Day          string          `json:"-"` // "monday" или "1"
	Windows      []WindowRequest `json:"windows"`
}

// Response модели

// WindowResponse рабочее окно
type WindowResponse struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// DayResponse расписание одного дня недели
type DayResponse struct {
	DayOfWeek int              `json:"dayOfWeek"` // 1 = понедельник
	Day       string           `json:"day"`
	Windows   []WindowResponse `json:"windows"`
}

// WeekResponse недельный шаблон мастера, все семь дней по порядку
type WeekResponse struct {
	BeauticianID int64         `json:"beauticianId"`
	Days         []DayResponse `json:"days"`
}

// FromDomainDay конвертирует строки одного дня в DTO
func FromDomainDay(day domain.DayOfWeek, rows []domain.BeauticianAvailability) DayResponse {
	resp := DayResponse{
		DayOfWeek: int(day),
		Day:       day.String(),
		Windows:   make([]WindowResponse, 0, len(rows)),
	}
	for _, r := range rows {
		resp.Windows = append(resp.Windows, WindowResponse{
			StartTime: r.StartTime.String(),
			EndTime:   r.EndTime.String(),
		})
	}
	return resp
}

// FromDomainWeek группирует строки шаблона по дням недели
func FromDomainWeek(beauticianID int64, rows []domain.BeauticianAvailability) *WeekResponse {
	byDay := make(map[domain.DayOfWeek][]domain.BeauticianAvailability, 7)
	for _, r := range rows {
		byDay[r.DayOfWeek] = append(byDay[r.DayOfWeek], r)
	}

	resp := &WeekResponse{BeauticianID: beauticianID, Days: make([]DayResponse, 0, 7)}
	for day := domain.Monday; day <= domain.Sunday; day++ {
		resp.Days = append(resp.Days, FromDomainDay(day, byDay[day]))
	}
	return resp
}
