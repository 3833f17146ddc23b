package find_best_beautician

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Request модель запроса предпросмотра умного бронирования
type Request struct {
	ServiceIDs []int64
	Date       time.Time
	BranchID   *int64 // nil = любой филиал
}

// Response рекомендация (мастер, слот)
type Response struct {
	BeauticianID   int64
	BeauticianName string
	StartTime      types.TimeString
	EndTime        types.TimeString
	TotalDuration  int
	TotalPrice     float64
}
