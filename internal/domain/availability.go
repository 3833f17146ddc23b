package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// DayOfWeek is an ISO weekday: Monday = 1 ... Sunday = 7
type DayOfWeek int

const (
	Monday DayOfWeek = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var dayNames = map[DayOfWeek]string{
	Monday:    "monday",
	Tuesday:   "tuesday",
	Wednesday: "wednesday",
	Thursday:  "thursday",
	Friday:    "friday",
	Saturday:  "saturday",
	Sunday:    "sunday",
}

// DayOfWeekFromDate resolves the ISO weekday of a calendar date
func DayOfWeekFromDate(date time.Time) DayOfWeek {
	wd := date.Weekday()
	if wd == time.Sunday {
		return Sunday
	}
	return DayOfWeek(wd)
}

// ParseDayOfWeek accepts an ISO number ("1".."7") or an English day name
func ParseDayOfWeek(s string) (DayOfWeek, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for day, name := range dayNames {
		if s == name || s == fmt.Sprint(int(day)) {
			return day, nil
		}
	}
	return 0, fmt.Errorf("unknown day of week %q", s)
}

// IsValid returns true for Monday..Sunday
func (d DayOfWeek) IsValid() bool {
	return d >= Monday && d <= Sunday
}

func (d DayOfWeek) String() string {
	if name, ok := dayNames[d]; ok {
		return name
	}
	return fmt.Sprintf("DayOfWeek(%d)", int(d))
}

// BeauticianAvailability is one row of a beautician's recurring weekly template.
// Several rows per day are allowed (split shifts) as long as they do not overlap.
type BeauticianAvailability struct {
	ID           int64
	BeauticianID int64
	DayOfWeek    DayOfWeek
	StartTime    types.TimeString
	EndTime      types.TimeString
}

// Window returns the availability row as a TimeWindow
func (a BeauticianAvailability) Window() TimeWindow {
	return TimeWindow{Start: a.StartTime, End: a.EndTime}
}
