package schedule

import (
	"fmt"
	"time"
)

// StartingSoonWindow is how far before start a class counts as starting soon.
// It matches the reminder lead time so the countdown badge and the push
// notification cover the same interval.
const StartingSoonWindow = 15 * time.Minute

// State classifies a class relative to the current time
type State string

const (
	StateUpcoming     State = "upcoming"
	StateStartingSoon State = "starting-soon"
	StateOngoing      State = "ongoing"
	StateFinished     State = "finished"
)

// ClassStatus is the displayable status of a single class
type ClassStatus struct {
	State State  `json:"state"`
	Text  string `json:"text"`
}

// EvaluateStatus classifies a class whose start/end fall on the same calendar
// day as now. Both boundary instants belong to ongoing. The starting-soon
// countdown is truncated to whole minutes, never rounded up.
func EvaluateStatus(start, end Clock, now time.Time) ClassStatus {
	startAt := start.On(now)
	endAt := end.On(now)

	switch {
	case now.Before(startAt):
		gap := startAt.Sub(now)
		if gap <= StartingSoonWindow {
			return ClassStatus{
				State: StateStartingSoon,
				Text:  fmt.Sprintf("%dm", int(gap.Minutes())),
			}
		}
		return ClassStatus{
			State: StateUpcoming,
			Text:  fmt.Sprintf("Starts %s", start),
		}
	case now.After(endAt):
		return ClassStatus{State: StateFinished, Text: "Finished"}
	default:
		return ClassStatus{State: StateOngoing, Text: "Ongoing"}
	}
}
