package domain

import (
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// TimeWindow is a half-open [Start, End) interval within one day
type TimeWindow struct {
	Start types.TimeString
	End   types.TimeString
}

// DurationMinutes returns the window length
func (w TimeWindow) DurationMinutes() int {
	return w.Start.MinutesUntil(w.End)
}

// IsValid returns true if both bounds are set and Start < End
func (w TimeWindow) IsValid() bool {
	return !w.Start.IsZero() && !w.End.IsZero() && w.Start.IsBefore(w.End)
}

// Overlaps returns true if the intervals intersect.
// Touching windows (one ends exactly where the other starts) do not overlap.
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.Start.IsBefore(other.End) && w.End.IsAfter(other.Start)
}

// Contains returns true if other lies entirely within w
func (w TimeWindow) Contains(other TimeWindow) bool {
	return !other.Start.IsBefore(w.Start) && !other.End.IsAfter(w.End)
}

func (w TimeWindow) String() string {
	return fmt.Sprintf("%s-%s", w.Start, w.End)
}

// Slot represents a bookable time range for one beautician
type Slot struct {
	StartTime types.TimeString
	EndTime   types.TimeString
}

// ID returns a stable identifier of the slot within a day ("09:00-09:30")
func (s Slot) ID() string {
	return fmt.Sprintf("%s-%s", s.StartTime, s.EndTime)
}

// Window returns the slot as a TimeWindow
func (s Slot) Window() TimeWindow {
	return TimeWindow{Start: s.StartTime, End: s.EndTime}
}

// DurationMinutes returns the slot length
func (s Slot) DurationMinutes() int {
	return s.StartTime.MinutesUntil(s.EndTime)
}

// Recommendation is the single best (beautician, slot) pair picked by smart booking
type Recommendation struct {
	BeauticianID   int64
	BeauticianName string
	StartTime      types.TimeString
	EndTime        types.TimeString
}
