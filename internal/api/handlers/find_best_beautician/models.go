package find_best_beautician

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	findBest "github.com/m04kA/SMC-SalonBooking/internal/usecase/find_best_beautician"
)

// RecommendationResponse HTTP response model
type RecommendationResponse struct {
	BeauticianID   int64   `json:"beauticianId"`
	BeauticianName string  `json:"beauticianName"`
	Date           string  `json:"date"`
	StartTime      string  `json:"startTime"`
	EndTime        string  `json:"endTime"`
	TotalDuration  int     `json:"totalDuration"`
	TotalPrice     float64 `json:"totalPrice"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(date time.Time, resp *findBest.Response) *RecommendationResponse {
	return &RecommendationResponse{
		BeauticianID:   resp.BeauticianID,
		BeauticianName: resp.BeauticianName,
		Date:           date.Format(domain.DateFormat),
		StartTime:      resp.StartTime.String(),
		EndTime:        resp.EndTime.String(),
		TotalDuration:  resp.TotalDuration,
		TotalPrice:     resp.TotalPrice,
	}
}
