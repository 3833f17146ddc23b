package preview

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// Key параметры запроса предпросмотра
type Key struct {
	ServiceIDs []int64
	Date       time.Time
	BranchID   *int64
}

// normalized строковое представление ключа, не зависящее от порядка услуг
func (k Key) normalized() string {
	ids := make([]int64, len(k.ServiceIDs))
	copy(ids, k.ServiceIDs)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}

	branch := "any"
	if k.BranchID != nil {
		branch = strconv.FormatInt(*k.BranchID, 10)
	}

	return fmt.Sprintf("%s:%s", branch, strings.Join(parts, ","))
}

// Entry закэшированная рекомендация
type Entry struct {
	BeauticianID   int64   `json:"beautician_id"`
	BeauticianName string  `json:"beautician_name"`
	StartTime      string  `json:"start_time"`
	EndTime        string  `json:"end_time"`
	TotalDuration  int     `json:"total_duration"`
	TotalPrice     float64 `json:"total_price"`
}

// Recommendation восстанавливает доменную рекомендацию
func (e *Entry) Recommendation() (domain.Recommendation, error) {
	var rec domain.Recommendation
	if err := rec.StartTime.UnmarshalText([]byte(e.StartTime)); err != nil {
		return rec, err
	}
	if err := rec.EndTime.UnmarshalText([]byte(e.EndTime)); err != nil {
		return rec, err
	}
	rec.BeauticianID = e.BeauticianID
	rec.BeauticianName = e.BeauticianName
	return rec, nil
}
