package schedule

import (
	"fmt"
	"time"

	"classtrack/internal/models"
)

// ReminderLead is how long before class start a reminder fires
const ReminderLead = 15 * time.Minute

// PlanReminders computes the reminder records that should exist for today's
// slots as of now. A slot whose fire time has already passed is skipped: there
// are no retroactive reminders. Fire times are truncated to the minute so that
// planner runs landing on different seconds agree on the dedup key.
//
// The result carries no IDs; creation and deduplication belong to the ledger,
// which makes this safe to call on every tick or refresh.
func PlanReminders(slots []models.TimetableSlot, catalog map[string]models.Course, now time.Time) ([]models.ReminderRecord, error) {
	var plans []models.ReminderRecord
	for _, slot := range slots {
		start, err := ParseClock(slot.StartTime)
		if err != nil {
			return nil, fmt.Errorf("slot %d for %s: %w", slot.ID, slot.CourseCode, err)
		}

		firesAt := start.On(now).Add(-ReminderLead).Truncate(time.Minute)
		if !firesAt.After(now) {
			continue
		}

		name := slot.CourseCode
		if course, ok := catalog[slot.CourseCode]; ok {
			name = course.Name
		}

		plans = append(plans, models.ReminderRecord{
			Username:   slot.Username,
			CourseCode: slot.CourseCode,
			CourseName: name,
			StartTime:  slot.StartTime,
			Location:   slot.Location,
			FiresAt:    firesAt,
		})
	}
	return plans, nil
}
