package schedule

import (
	"testing"
	"time"

	"classtrack/internal/models"
)

func mondaySlots() []models.TimetableSlot {
	return []models.TimetableSlot{
		{Username: "arjun", Weekday: 1, StartTime: "08:00", EndTime: "10:55", CourseCode: "CS3065", Location: "(# HW LAB)"},
		{Username: "arjun", Weekday: 1, StartTime: "11:05", EndTime: "12:00", CourseCode: "ER4231", Location: "(#)"},
	}
}

func mondayCatalog() map[string]models.Course {
	return map[string]models.Course{
		"CS3065": {Code: "CS3065", Name: "IoT Prototyping Laboratory"},
		"ER4231": {Code: "ER4231", Name: "Science of Climate and Climate Change"},
	}
}

func TestPlanReminders(t *testing.T) {
	now := time.Date(2026, 1, 5, 7, 30, 0, 0, time.UTC) // Monday 07:30

	plans, err := PlanReminders(mondaySlots(), mondayCatalog(), now)
	if err != nil {
		t.Fatalf("PlanReminders returned error: %v", err)
	}
	if len(plans) != 2 {
		t.Fatalf("got %d plans, want 2", len(plans))
	}

	first := plans[0]
	if first.CourseCode != "CS3065" {
		t.Errorf("first plan course = %q, want CS3065", first.CourseCode)
	}
	if first.CourseName != "IoT Prototyping Laboratory" {
		t.Errorf("first plan name = %q, want catalog name", first.CourseName)
	}
	wantFire := time.Date(2026, 1, 5, 7, 45, 0, 0, time.UTC)
	if !first.FiresAt.Equal(wantFire) {
		t.Errorf("first plan fires at %v, want %v", first.FiresAt, wantFire)
	}
	if first.Sent {
		t.Error("planned reminder must start unsent")
	}
}

func TestPlanRemindersSkipsPastWindows(t *testing.T) {
	// 09:00 Monday: the 08:00 class already started, only the 11:05 class
	// still has a reminder ahead of it
	now := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	plans, err := PlanReminders(mondaySlots(), mondayCatalog(), now)
	if err != nil {
		t.Fatalf("PlanReminders returned error: %v", err)
	}
	if len(plans) != 1 {
		t.Fatalf("got %d plans, want 1", len(plans))
	}
	if plans[0].CourseCode != "ER4231" {
		t.Errorf("surviving plan = %q, want ER4231", plans[0].CourseCode)
	}
}

func TestPlanRemindersSkipsExactFireInstant(t *testing.T) {
	// At exactly 07:45 the CS3065 window has arrived; planning it now would
	// produce a reminder that is instantly due but was never announced ahead
	// of time, so it is dropped
	now := time.Date(2026, 1, 5, 7, 45, 0, 0, time.UTC)

	plans, err := PlanReminders(mondaySlots(), mondayCatalog(), now)
	if err != nil {
		t.Fatalf("PlanReminders returned error: %v", err)
	}
	for _, p := range plans {
		if p.CourseCode == "CS3065" {
			t.Error("CS3065 planned at its own fire instant")
		}
	}
}

func TestPlanRemindersTruncatesSeconds(t *testing.T) {
	// Ticks landing on different seconds must agree on the fire time
	for _, sec := range []int{0, 17, 59} {
		now := time.Date(2026, 1, 5, 7, 30, sec, 0, time.UTC)
		plans, err := PlanReminders(mondaySlots(), mondayCatalog(), now)
		if err != nil {
			t.Fatalf("PlanReminders returned error: %v", err)
		}
		want := time.Date(2026, 1, 5, 7, 45, 0, 0, time.UTC)
		if !plans[0].FiresAt.Equal(want) {
			t.Errorf("at second %d fire time = %v, want %v", sec, plans[0].FiresAt, want)
		}
	}
}

func TestPlanRemindersUnknownCourseFallsBackToCode(t *testing.T) {
	now := time.Date(2026, 1, 5, 7, 30, 0, 0, time.UTC)
	slots := []models.TimetableSlot{
		{Username: "arjun", Weekday: 1, StartTime: "08:00", EndTime: "08:55", CourseCode: "XX0000"},
	}

	plans, err := PlanReminders(slots, map[string]models.Course{}, now)
	if err != nil {
		t.Fatalf("PlanReminders returned error: %v", err)
	}
	if len(plans) != 1 || plans[0].CourseName != "XX0000" {
		t.Errorf("expected fallback to course code, got %+v", plans)
	}
}

func TestPlanRemindersMalformedStartTime(t *testing.T) {
	now := time.Date(2026, 1, 5, 7, 30, 0, 0, time.UTC)
	slots := []models.TimetableSlot{
		{Username: "arjun", Weekday: 1, StartTime: "8am", EndTime: "08:55", CourseCode: "CS3009"},
	}

	if _, err := PlanReminders(slots, nil, now); err == nil {
		t.Error("expected error for malformed start time")
	}
}
