package selector

import (
	"sort"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/matcher"
)

// Rank упорядочивает кандидатов для умного бронирования:
// сначала самый ранний первый слот, при равенстве - меньший ID мастера.
// Кандидаты без слотов отбрасываются. Исходный слайс не меняется.
func Rank(candidates []matcher.Candidate) []matcher.Candidate {
	ranked := make([]matcher.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if len(c.Slots) > 0 && c.Beautician != nil {
			ranked = append(ranked, c)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i].Slots[0].StartTime, ranked[j].Slots[0].StartTime
		if !a.Equal(b) {
			return a.IsBefore(b)
		}
		return ranked[i].Beautician.ID < ranked[j].Beautician.ID
	})

	return ranked
}

// SelectBest выбирает одну рекомендацию. false - свободного времени нет.
func SelectBest(candidates []matcher.Candidate) (domain.Recommendation, bool) {
	ranked := Rank(candidates)
	if len(ranked) == 0 {
		return domain.Recommendation{}, false
	}

	best := ranked[0]
	slot := best.Slots[0]
	return domain.Recommendation{
		BeauticianID:   best.Beautician.ID,
		BeauticianName: domain.BeauticianDisplayName(best.Beautician),
		StartTime:      slot.StartTime,
		EndTime:        slot.EndTime,
	}, true
}
