package available_beauticians

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	availableBeauticians "github.com/m04kA/SMC-SalonBooking/internal/usecase/available_beauticians"
)

// SlotResponse HTTP модель слота
type SlotResponse struct {
	ID        string `json:"id"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// BeauticianResponse мастер со свободными слотами
type BeauticianResponse struct {
	ID    int64          `json:"id"`
	Name  string         `json:"name"`
	Slots []SlotResponse `json:"slots"`
}

// AvailableBeauticiansResponse HTTP response model
type AvailableBeauticiansResponse struct {
	Date          string               `json:"date"`
	TotalDuration int                  `json:"totalDuration"`
	TotalPrice    float64              `json:"totalPrice"`
	Beauticians   []BeauticianResponse `json:"beauticians"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(date time.Time, resp *availableBeauticians.Response) *AvailableBeauticiansResponse {
	out := &AvailableBeauticiansResponse{
		Date:          date.Format(domain.DateFormat),
		TotalDuration: resp.TotalDuration,
		TotalPrice:    resp.TotalPrice,
		Beauticians:   make([]BeauticianResponse, 0, len(resp.Beauticians)),
	}

	for _, b := range resp.Beauticians {
		slots := make([]SlotResponse, 0, len(b.Slots))
		for _, s := range b.Slots {
			slots = append(slots, SlotResponse{ID: s.ID(), StartTime: s.StartTime.String(), EndTime: s.EndTime.String()})
		}
		out.Beauticians = append(out.Beauticians, BeauticianResponse{ID: b.ID, Name: b.Name, Slots: slots})
	}

	return out
}
