package schedule

import "time"

// The timetable covers a fixed Monday-Friday work week. Saturday and Sunday
// have no classes; "tomorrow" rolls forward over the weekend to Monday.

// CurrentWorkingDay returns the weekday of now if it falls on a working day.
// On Saturday and Sunday it returns ok=false: a weekend has no class list,
// which is an empty result rather than an error.
func CurrentWorkingDay(now time.Time) (time.Weekday, bool) {
	wd := now.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return wd, false
	}
	return wd, true
}

// NextWorkingDay returns the weekday whose classes count as "tomorrow".
// Friday, Saturday and Sunday all resolve to Monday; Monday through Thursday
// resolve to the next calendar day.
func NextWorkingDay(now time.Time) time.Weekday {
	switch wd := now.Weekday(); wd {
	case time.Friday, time.Saturday, time.Sunday:
		return time.Monday
	default:
		return wd + 1
	}
}
