package available_time_slots

import (
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	availableTimeSlots "github.com/m04kA/SMC-SalonBooking/internal/usecase/available_time_slots"
)

// AvailableTimeSlotsResponse HTTP response model
type AvailableTimeSlotsResponse struct {
	BeauticianID int64          `json:"beauticianId"`
	Date         string         `json:"date"`
	Slots        []SlotResponse `json:"slots"`
}

// SlotResponse модель временного слота
type SlotResponse struct {
	ID        string `json:"id"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *availableTimeSlots.Response) *AvailableTimeSlotsResponse {
	slots := make([]SlotResponse, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = SlotResponse{
			ID:        slot.ID,
			StartTime: slot.StartTime.String(),
			EndTime:   slot.EndTime.String(),
		}
	}

	return &AvailableTimeSlotsResponse{
		BeauticianID: resp.BeauticianID,
		Date:         resp.Date.Format(domain.DateFormat),
		Slots:        slots,
	}
}
