package schedule

import (
	"fmt"
	"time"
)

// Clock is a time of day with minute precision, parsed from the "HH:MM"
// strings stored on timetable slots. Parsing happens once at the API and seed
// boundaries; inside the engine a Clock is always valid.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses an "HH:MM" string in 24-hour time. All five bytes are
// checked explicitly; no whitespace, signs, or trailing characters pass.
func ParseClock(s string) (Clock, error) {
	var c Clock
	if len(s) != 5 || s[2] != ':' {
		return c, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	for _, i := range [4]int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return c, fmt.Errorf("invalid time %q: want HH:MM", s)
		}
	}
	c.Hour = int(s[0]-'0')*10 + int(s[1]-'0')
	c.Minute = int(s[3]-'0')*10 + int(s[4]-'0')
	if c.Hour > 23 || c.Minute > 59 {
		return c, fmt.Errorf("invalid time %q: out of range", s)
	}
	return c, nil
}

// MustParseClock is ParseClock for trusted compile-time constants (seed data)
func MustParseClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// String formats the clock back to "HH:MM"
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// On anchors the clock to the calendar day of ref, in ref's location
func (c Clock) On(ref time.Time) time.Time {
	return time.Date(ref.Year(), ref.Month(), ref.Day(), c.Hour, c.Minute, 0, 0, ref.Location())
}
